package handlers

import (
	"context"
	"errors"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"github.com/echess/club-api/internal/audit"
	"github.com/echess/club-api/internal/club"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// ContentHandler handles news posts, events, and the photo gallery.
type ContentHandler struct {
	news    club.NewsRepository
	events  club.EventRepository
	gallery club.GalleryRepository
	publish audit.Publish
	logger  *zap.Logger
}

// NewContentHandler creates a new content handler.
func NewContentHandler(
	news club.NewsRepository,
	events club.EventRepository,
	gallery club.GalleryRepository,
	publish audit.Publish,
	logger *zap.Logger,
) *ContentHandler {
	return &ContentHandler{
		news:    news,
		events:  events,
		gallery: gallery,
		publish: publish,
		logger:  logger,
	}
}

// NewsDTO is the wire shape of a news post.
type NewsDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	ImageURL  string    `json:"imageUrl,omitempty"`
	CreatedAt time.Time `json:"createdAt"`
}

func newsDTO(n *club.News) NewsDTO {
	return NewsDTO{
		ID:        n.ID,
		Title:     n.Title,
		Content:   n.Content,
		ImageURL:  n.ImageURL,
		CreatedAt: n.CreatedAt,
	}
}

type ListNewsResponse struct {
	Body struct {
		News []NewsDTO `json:"news"`
	}
}

func (h *ContentHandler) ListNews(ctx context.Context, _ *struct{}) (*ListNewsResponse, error) {
	posts, err := h.news.List(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list news")
	}

	resp := &ListNewsResponse{}
	resp.Body.News = make([]NewsDTO, 0, len(posts))

	for i := range posts {
		resp.Body.News = append(resp.Body.News, newsDTO(&posts[i]))
	}

	return resp, nil
}

type GetNewsRequest struct {
	ID string `doc:"News id" path:"id"`
}

type GetNewsResponse struct {
	Body NewsDTO
}

func (h *ContentHandler) GetNews(ctx context.Context, req *GetNewsRequest) (*GetNewsResponse, error) {
	post, err := h.news.Get(ctx, req.ID)
	if err != nil {
		if errors.Is(err, club.ErrNotFound) {
			return nil, huma.Error404NotFound("news post not found")
		}

		return nil, huma.Error500InternalServerError("failed to get news post")
	}

	return &GetNewsResponse{Body: newsDTO(post)}, nil
}

type CreateNewsRequest struct {
	Body struct {
		Title    string `doc:"Headline"             json:"title" minLength:"1"`
		Content  string `doc:"Post body"            json:"content" minLength:"1"`
		ImageURL string `doc:"Image URL (optional)" format:"uri" json:"imageUrl,omitempty" required:"false"`
	}
}

type CreateNewsResponse struct {
	Body NewsDTO
}

func (h *ContentHandler) CreateNews(ctx context.Context, req *CreateNewsRequest) (*CreateNewsResponse, error) {
	post := &club.News{
		ID:        uuid.NewString(),
		Title:     req.Body.Title,
		Content:   req.Body.Content,
		ImageURL:  req.Body.ImageURL,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.news.Create(ctx, post); err != nil {
		return nil, huma.Error500InternalServerError("failed to create news post")
	}

	publishAudit(ctx, h.publish, h.logger, "create", "news", post.ID)

	return &CreateNewsResponse{Body: newsDTO(post)}, nil
}

type UpdateNewsRequest struct {
	ID   string `doc:"News id" path:"id"`
	Body struct {
		Title    string `doc:"Headline"             json:"title" minLength:"1"`
		Content  string `doc:"Post body"            json:"content" minLength:"1"`
		ImageURL string `doc:"Image URL (optional)" format:"uri" json:"imageUrl,omitempty" required:"false"`
	}
}

type UpdateNewsResponse struct {
	Body NewsDTO
}

func (h *ContentHandler) UpdateNews(ctx context.Context, req *UpdateNewsRequest) (*UpdateNewsResponse, error) {
	post, err := h.news.Get(ctx, req.ID)
	if err != nil {
		if errors.Is(err, club.ErrNotFound) {
			return nil, huma.Error404NotFound("news post not found")
		}

		return nil, huma.Error500InternalServerError("failed to get news post")
	}

	post.Title = req.Body.Title
	post.Content = req.Body.Content
	post.ImageURL = req.Body.ImageURL

	if err := h.news.Update(ctx, post); err != nil {
		return nil, huma.Error500InternalServerError("failed to update news post")
	}

	publishAudit(ctx, h.publish, h.logger, "update", "news", post.ID)

	return &UpdateNewsResponse{Body: newsDTO(post)}, nil
}

type DeleteNewsRequest struct {
	ID string `doc:"News id" path:"id"`
}

type DeleteNewsResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *ContentHandler) DeleteNews(ctx context.Context, req *DeleteNewsRequest) (*DeleteNewsResponse, error) {
	if err := h.news.Delete(ctx, req.ID); err != nil {
		if errors.Is(err, club.ErrNotFound) {
			return nil, huma.Error404NotFound("news post not found")
		}

		return nil, huma.Error500InternalServerError("failed to delete news post")
	}

	publishAudit(ctx, h.publish, h.logger, "delete", "news", req.ID)

	resp := &DeleteNewsResponse{}
	resp.Body.Message = "news post deleted"

	return resp, nil
}

// EventDTO is the wire shape of a club event.
type EventDTO struct {
	ID          string    `json:"id"`
	Title       string    `json:"title"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location"`
	Date        time.Time `json:"date"`
	CreatedAt   time.Time `json:"createdAt"`
}

func eventDTO(e *club.Event) EventDTO {
	return EventDTO{
		ID:          e.ID,
		Title:       e.Title,
		Description: e.Description,
		Location:    e.Location,
		Date:        e.Date,
		CreatedAt:   e.CreatedAt,
	}
}

type ListEventsResponse struct {
	Body struct {
		Events []EventDTO `json:"events"`
	}
}

func (h *ContentHandler) ListEvents(ctx context.Context, _ *struct{}) (*ListEventsResponse, error) {
	events, err := h.events.List(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list events")
	}

	resp := &ListEventsResponse{}
	resp.Body.Events = make([]EventDTO, 0, len(events))

	for i := range events {
		resp.Body.Events = append(resp.Body.Events, eventDTO(&events[i]))
	}

	return resp, nil
}

type CreateEventRequest struct {
	Body struct {
		Title       string    `doc:"Event title"            json:"title" minLength:"1"`
		Description string    `doc:"Description (optional)" json:"description,omitempty" required:"false"`
		Location    string    `doc:"Where it happens"       json:"location" minLength:"1"`
		Date        time.Time `doc:"When it happens"        json:"date"`
	}
}

type CreateEventResponse struct {
	Body EventDTO
}

func (h *ContentHandler) CreateEvent(ctx context.Context, req *CreateEventRequest) (*CreateEventResponse, error) {
	event := &club.Event{
		ID:          uuid.NewString(),
		Title:       req.Body.Title,
		Description: req.Body.Description,
		Location:    req.Body.Location,
		Date:        req.Body.Date,
		CreatedAt:   time.Now().UTC(),
	}

	if err := h.events.Create(ctx, event); err != nil {
		return nil, huma.Error500InternalServerError("failed to create event")
	}

	publishAudit(ctx, h.publish, h.logger, "create", "event", event.ID)

	return &CreateEventResponse{Body: eventDTO(event)}, nil
}

type UpdateEventRequest struct {
	ID   string `doc:"Event id" path:"id"`
	Body struct {
		Title       string    `doc:"Event title"            json:"title" minLength:"1"`
		Description string    `doc:"Description (optional)" json:"description,omitempty" required:"false"`
		Location    string    `doc:"Where it happens"       json:"location" minLength:"1"`
		Date        time.Time `doc:"When it happens"        json:"date"`
	}
}

type UpdateEventResponse struct {
	Body EventDTO
}

func (h *ContentHandler) UpdateEvent(ctx context.Context, req *UpdateEventRequest) (*UpdateEventResponse, error) {
	event := &club.Event{
		ID:          req.ID,
		Title:       req.Body.Title,
		Description: req.Body.Description,
		Location:    req.Body.Location,
		Date:        req.Body.Date,
	}

	if err := h.events.Update(ctx, event); err != nil {
		if errors.Is(err, club.ErrNotFound) {
			return nil, huma.Error404NotFound("event not found")
		}

		return nil, huma.Error500InternalServerError("failed to update event")
	}

	publishAudit(ctx, h.publish, h.logger, "update", "event", event.ID)

	return &UpdateEventResponse{Body: eventDTO(event)}, nil
}

type DeleteEventRequest struct {
	ID string `doc:"Event id" path:"id"`
}

type DeleteEventResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *ContentHandler) DeleteEvent(ctx context.Context, req *DeleteEventRequest) (*DeleteEventResponse, error) {
	if err := h.events.Delete(ctx, req.ID); err != nil {
		if errors.Is(err, club.ErrNotFound) {
			return nil, huma.Error404NotFound("event not found")
		}

		return nil, huma.Error500InternalServerError("failed to delete event")
	}

	publishAudit(ctx, h.publish, h.logger, "delete", "event", req.ID)

	resp := &DeleteEventResponse{}
	resp.Body.Message = "event deleted"

	return resp, nil
}

// GalleryItemDTO is the wire shape of a gallery photo.
type GalleryItemDTO struct {
	ID        string    `json:"id"`
	Title     string    `json:"title"`
	ImageURL  string    `json:"imageUrl"`
	CreatedAt time.Time `json:"createdAt"`
}

func galleryItemDTO(g *club.GalleryItem) GalleryItemDTO {
	return GalleryItemDTO{
		ID:        g.ID,
		Title:     g.Title,
		ImageURL:  g.ImageURL,
		CreatedAt: g.CreatedAt,
	}
}

type ListGalleryResponse struct {
	Body struct {
		Items []GalleryItemDTO `json:"items"`
	}
}

func (h *ContentHandler) ListGallery(ctx context.Context, _ *struct{}) (*ListGalleryResponse, error) {
	items, err := h.gallery.List(ctx)
	if err != nil {
		return nil, huma.Error500InternalServerError("failed to list gallery")
	}

	resp := &ListGalleryResponse{}
	resp.Body.Items = make([]GalleryItemDTO, 0, len(items))

	for i := range items {
		resp.Body.Items = append(resp.Body.Items, galleryItemDTO(&items[i]))
	}

	return resp, nil
}

type CreateGalleryItemRequest struct {
	Body struct {
		Title    string `doc:"Caption"   json:"title" minLength:"1"`
		ImageURL string `doc:"Image URL" format:"uri" json:"imageUrl"`
	}
}

type CreateGalleryItemResponse struct {
	Body GalleryItemDTO
}

func (h *ContentHandler) CreateGalleryItem(ctx context.Context, req *CreateGalleryItemRequest) (*CreateGalleryItemResponse, error) {
	item := &club.GalleryItem{
		ID:        uuid.NewString(),
		Title:     req.Body.Title,
		ImageURL:  req.Body.ImageURL,
		CreatedAt: time.Now().UTC(),
	}

	if err := h.gallery.Create(ctx, item); err != nil {
		return nil, huma.Error500InternalServerError("failed to add gallery item")
	}

	publishAudit(ctx, h.publish, h.logger, "create", "gallery", item.ID)

	return &CreateGalleryItemResponse{Body: galleryItemDTO(item)}, nil
}

type DeleteGalleryItemRequest struct {
	ID string `doc:"Gallery item id" path:"id"`
}

type DeleteGalleryItemResponse struct {
	Body struct {
		Message string `json:"message"`
	}
}

func (h *ContentHandler) DeleteGalleryItem(ctx context.Context, req *DeleteGalleryItemRequest) (*DeleteGalleryItemResponse, error) {
	if err := h.gallery.Delete(ctx, req.ID); err != nil {
		if errors.Is(err, club.ErrNotFound) {
			return nil, huma.Error404NotFound("gallery item not found")
		}

		return nil, huma.Error500InternalServerError("failed to delete gallery item")
	}

	publishAudit(ctx, h.publish, h.logger, "delete", "gallery", req.ID)

	resp := &DeleteGalleryItemResponse{}
	resp.Body.Message = "gallery item deleted"

	return resp, nil
}
