package handler

import (
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/pimsync/connector/internal/domain/channel"
	"github.com/pimsync/connector/internal/interfaces/http/dto"
)

// ChannelHandler handles channel-related API endpoints. Channels are managed
// out of band; the API exposes them read only.
type ChannelHandler struct {
	BaseHandler
	channels channel.Repository
}

// NewChannelHandler creates a new ChannelHandler
func NewChannelHandler(channels channel.Repository) *ChannelHandler {
	return &ChannelHandler{
		channels: channels,
	}
}

// ChannelResponse represents a channel configuration. The client secret is
// never returned.
type ChannelResponse struct {
	ID                          string    `json:"id"`
	Name                        string    `json:"name"`
	Host                        string    `json:"host"`
	ClientID                    string    `json:"client_id"`
	DefaultLanguage             string    `json:"default_language"`
	Languages                   []string  `json:"languages"`
	SegmentID                   *string   `json:"segment_id,omitempty"`
	CategoryTreeIDs             []string  `json:"category_tree_ids"`
	AttributeProductName        *string   `json:"attribute_product_name,omitempty"`
	AttributeProductActive      *string   `json:"attribute_product_active,omitempty"`
	AttributeProductPriceGross  *string   `json:"attribute_product_price_gross,omitempty"`
	AttributeProductPriceNet    *string   `json:"attribute_product_price_net,omitempty"`
	AttributeProductStock       *string   `json:"attribute_product_stock,omitempty"`
	AttributeProductTax         *string   `json:"attribute_product_tax,omitempty"`
	AttributeProductDescription *string   `json:"attribute_product_description,omitempty"`
	AttributeProductGallery     *string   `json:"attribute_product_gallery,omitempty"`
	SalesChannelID              *string   `json:"sales_channel_id,omitempty"`
	CustomFieldAttributeIDs     []string  `json:"custom_field_attribute_ids"`
	PropertyGroupAttributeIDs   []string  `json:"property_group_attribute_ids"`
	CreatedAt                   time.Time `json:"created_at"`
	UpdatedAt                   time.Time `json:"updated_at"`
}

func uuidString(id *uuid.UUID) *string {
	if id == nil {
		return nil
	}
	s := id.String()
	return &s
}

func uuidStrings(ids []uuid.UUID) []string {
	out := make([]string, 0, len(ids))
	for _, id := range ids {
		out = append(out, id.String())
	}
	return out
}

func toChannelResponse(ch *channel.Channel) ChannelResponse {
	languages := ch.Languages
	if languages == nil {
		languages = []string{}
	}
	return ChannelResponse{
		ID:                          ch.ID.String(),
		Name:                        ch.Name,
		Host:                        ch.Host,
		ClientID:                    ch.ClientID,
		DefaultLanguage:             ch.DefaultLanguage,
		Languages:                   languages,
		SegmentID:                   uuidString(ch.SegmentID),
		CategoryTreeIDs:             uuidStrings(ch.CategoryTreeIDs),
		AttributeProductName:        uuidString(ch.AttributeProductName),
		AttributeProductActive:      uuidString(ch.AttributeProductActive),
		AttributeProductPriceGross:  uuidString(ch.AttributeProductPriceGross),
		AttributeProductPriceNet:    uuidString(ch.AttributeProductPriceNet),
		AttributeProductStock:       uuidString(ch.AttributeProductStock),
		AttributeProductTax:         uuidString(ch.AttributeProductTax),
		AttributeProductDescription: uuidString(ch.AttributeProductDescription),
		AttributeProductGallery:     uuidString(ch.AttributeProductGallery),
		SalesChannelID:              ch.SalesChannelID,
		CustomFieldAttributeIDs:     uuidStrings(ch.CustomFieldAttributeIDs),
		PropertyGroupAttributeIDs:   uuidStrings(ch.PropertyGroupAttributeIDs),
		CreatedAt:                   ch.CreatedAt,
		UpdatedAt:                   ch.UpdatedAt,
	}
}

// ListChannels returns every configured channel
func (h *ChannelHandler) ListChannels(c *gin.Context) {
	channels, err := h.channels.FindAll(c.Request.Context())
	if err != nil {
		h.HandleError(c, err)
		return
	}

	responses := make([]ChannelResponse, 0, len(channels))
	for i := range channels {
		responses = append(responses, toChannelResponse(&channels[i]))
	}

	h.Success(c, responses)
}

// GetChannel returns a single channel configuration
func (h *ChannelHandler) GetChannel(c *gin.Context) {
	var req dto.IDRequest
	if err := c.ShouldBindUri(&req); err != nil {
		h.BadRequest(c, "Invalid channel ID")
		return
	}
	channelID, err := uuid.Parse(req.ID)
	if err != nil {
		h.BadRequest(c, "Invalid channel ID")
		return
	}

	ch, err := h.channels.FindByID(c.Request.Context(), channelID)
	if err != nil {
		h.HandleError(c, err)
		return
	}

	h.Success(c, toChannelResponse(ch))
}

// RegisterRoutes registers channel routes
func (h *ChannelHandler) RegisterRoutes(rg *gin.RouterGroup) {
	channels := rg.Group("/channels")
	{
		channels.GET("", h.ListChannels)
		channels.GET("/:id", h.GetChannel)
	}
}
