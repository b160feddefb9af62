package ratings

import (
	"encoding/json"

	"github.com/echess/club-api/internal/club"
)

// statsDocument mirrors the slice of the provider stats payload we care
// about. Absent time controls simply decode to nil.
type statsDocument struct {
	Rapid  *timeControlStats `json:"chess_rapid"`
	Blitz  *timeControlStats `json:"chess_blitz"`
	Bullet *timeControlStats `json:"chess_bullet"`
}

type timeControlStats struct {
	Last *struct {
		Rating *int `json:"rating"`
	} `json:"last"`
}

func (t *timeControlStats) rating() *int {
	if t == nil || t.Last == nil {
		return nil
	}

	return t.Last.Rating
}

// ExtractRatings pulls the rapid/blitz/bullet ratings out of a stats payload.
// A payload that does not decode yields empty ratings rather than an error;
// the provider omits whole sections for players without games.
func ExtractRatings(payload Payload) club.Ratings {
	var doc statsDocument
	if err := json.Unmarshal(payload, &doc); err != nil {
		return club.Ratings{}
	}

	return club.Ratings{
		Rapid:  doc.Rapid.rating(),
		Blitz:  doc.Blitz.rating(),
		Bullet: doc.Bullet.rating(),
	}
}
