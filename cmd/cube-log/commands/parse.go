// Package commands implements the cube-log CLI commands.
package commands

import (
	"fmt"
	"strings"
	"time"

	"github.com/cubelink/cubelink-go/pkg/log"
)

// ParseLayerFlag parses a layer name (case-insensitive).
func ParseLayerFlag(s string) (log.Layer, error) {
	switch strings.ToLower(s) {
	case "transport":
		return log.LayerTransport, nil
	case "wire":
		return log.LayerWire, nil
	case "group":
		return log.LayerGroup, nil
	case "action":
		return log.LayerAction, nil
	default:
		return 0, fmt.Errorf("invalid layer: %s (must be transport, wire, group, or action)", s)
	}
}

// ParseDirectionFlag parses a direction name (case-insensitive).
func ParseDirectionFlag(s string) (log.Direction, error) {
	switch strings.ToLower(s) {
	case "in":
		return log.DirectionIn, nil
	case "out":
		return log.DirectionOut, nil
	case "local":
		return log.DirectionLocal, nil
	default:
		return 0, fmt.Errorf("invalid direction: %s (must be in, out, or local)", s)
	}
}

// ParseCategoryFlag parses a category name (case-insensitive).
func ParseCategoryFlag(s string) (log.Category, error) {
	switch strings.ToLower(s) {
	case "frame":
		return log.CategoryFrame, nil
	case "notification":
		return log.CategoryNotification, nil
	case "state":
		return log.CategoryState, nil
	case "error":
		return log.CategoryError, nil
	case "action":
		return log.CategoryAction, nil
	default:
		return 0, fmt.Errorf("invalid category: %s (must be frame, notification, state, error, or action)", s)
	}
}

// FilterOptions holds the textual filter flags shared by view and filter.
type FilterOptions struct {
	SessionID string
	Model     string
	Group     string
	TimeStart string
	TimeEnd   string
	Layer     string
	Direction string
	Category  string
}

// Build converts the options into a log.Filter.
func (o FilterOptions) Build() (log.Filter, error) {
	filter := log.Filter{
		SessionID: o.SessionID,
		Model:     o.Model,
		Group:     o.Group,
	}

	if o.TimeStart != "" {
		t, err := time.Parse(time.RFC3339, o.TimeStart)
		if err != nil {
			return filter, fmt.Errorf("invalid time-start format: %w", err)
		}
		filter.TimeStart = &t
	}
	if o.TimeEnd != "" {
		t, err := time.Parse(time.RFC3339, o.TimeEnd)
		if err != nil {
			return filter, fmt.Errorf("invalid time-end format: %w", err)
		}
		filter.TimeEnd = &t
	}
	if o.Layer != "" {
		l, err := ParseLayerFlag(o.Layer)
		if err != nil {
			return filter, err
		}
		filter.Layer = &l
	}
	if o.Direction != "" {
		d, err := ParseDirectionFlag(o.Direction)
		if err != nil {
			return filter, err
		}
		filter.Direction = &d
	}
	if o.Category != "" {
		c, err := ParseCategoryFlag(o.Category)
		if err != nil {
			return filter, err
		}
		filter.Category = &c
	}
	return filter, nil
}
