// Package classifier interprets the text returned by the image classification
// model. Calling the model itself happens outside this service.
package classifier

import (
	"encoding/json"
	"fmt"
	"regexp"
	"strings"

	"github.com/osse101/EcoQuest_Go/internal/domain"
	"github.com/osse101/EcoQuest_Go/internal/recycling"
	"github.com/osse101/EcoQuest_Go/internal/validation"
)

// Classification is the model's verdict on one photographed item
type Classification struct {
	Material   string `json:"tipo" validate:"required,material"`
	Confidence string `json:"confianza" validate:"required,oneof=alta media baja"`
	Advice     string `json:"consejo,omitempty"`
	Details    string `json:"detalles,omitempty"`
	Item       string `json:"objeto,omitempty"`
	Status     int    `json:"success,omitempty"`
}

var codeFence = regexp.MustCompile("(?i)```(json)?")

// ParseResponse extracts the classification from raw model output. The
// response may wrap the JSON object in markdown fences or surrounding prose.
// Every failure wraps domain.ErrInvalidResponse.
func ParseResponse(raw string) (*Classification, error) {
	text := strings.TrimSpace(codeFence.ReplaceAllString(raw, ""))

	start := strings.Index(text, "{")
	end := strings.LastIndex(text, "}")
	if start < 0 || end < start {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidResponse, ErrMsgNoJSONObject)
	}

	var c Classification
	if err := json.Unmarshal([]byte(text[start:end+1]), &c); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidResponse, ErrMsgDecodeFailed, err)
	}

	c.Material = recycling.NormalizeMaterial(c.Material)
	c.Confidence = strings.ToLower(strings.TrimSpace(c.Confidence))
	if c.Material == TypeError || c.Status == StatusUnsupported {
		return nil, fmt.Errorf("%w: %s", domain.ErrInvalidResponse, ErrMsgNotRecyclable)
	}
	if err := validation.Struct(c); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", domain.ErrInvalidResponse, ErrMsgInvalidFields, err)
	}
	return &c, nil
}

// RecordInput converts the classification into a recycling record request
func (c *Classification) RecordInput() recycling.RecordInput {
	return recycling.RecordInput{
		Material:   c.Material,
		Item:       c.Item,
		Confidence: c.Confidence,
	}
}
