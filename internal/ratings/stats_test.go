package ratings_test

import (
	"testing"

	"github.com/echess/club-api/internal/ratings"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestExtractRatings(t *testing.T) {
	t.Run("extracts all three time controls", func(t *testing.T) {
		payload := []byte(`{
			"chess_rapid": {"last": {"rating": 1500}},
			"chess_blitz": {"last": {"rating": 1400}},
			"chess_bullet": {"last": {"rating": 1300}}
		}`)

		r := ratings.ExtractRatings(payload)

		require.NotNil(t, r.Rapid)
		require.NotNil(t, r.Blitz)
		require.NotNil(t, r.Bullet)
		assert.Equal(t, 1500, *r.Rapid)
		assert.Equal(t, 1400, *r.Blitz)
		assert.Equal(t, 1300, *r.Bullet)
	})

	t.Run("missing sections yield nil", func(t *testing.T) {
		payload := []byte(`{"chess_rapid": {"last": {"rating": 1500}}}`)

		r := ratings.ExtractRatings(payload)

		require.NotNil(t, r.Rapid)
		assert.Equal(t, 1500, *r.Rapid)
		assert.Nil(t, r.Blitz)
		assert.Nil(t, r.Bullet)
	})

	t.Run("section without last yields nil", func(t *testing.T) {
		payload := []byte(`{"chess_rapid": {"record": {"win": 10}}}`)

		r := ratings.ExtractRatings(payload)

		assert.Nil(t, r.Rapid)
	})

	t.Run("malformed payload yields empty ratings", func(t *testing.T) {
		r := ratings.ExtractRatings([]byte(`not json`))

		assert.Nil(t, r.Rapid)
		assert.Nil(t, r.Blitz)
		assert.Nil(t, r.Bullet)
	})
}
