package server

import (
	"html/template"

	"github.com/adn360mx/imgopt/internal/profile"
	"github.com/adn360mx/imgopt/internal/report"
	"github.com/adn360mx/imgopt/internal/session"
)

// SessionView is the JSON shape of a session.
type SessionView struct {
	ID               string         `json:"id"`
	FileName         string         `json:"file_name"`
	MediaType        string         `json:"media_type"`
	Original         string         `json:"original"`
	OriginalSize     int64          `json:"original_size"`
	OriginalSizeText string         `json:"original_size_text"`
	OriginalWidth    int            `json:"original_width"`
	OriginalHeight   int            `json:"original_height"`
	Optimized        *OptimizedView `json:"optimized,omitempty"`
	DownloadName     string         `json:"download_name"`
	Stale            bool           `json:"stale,omitempty"`
}

// OptimizedView is present only once a transform result exists.
type OptimizedView struct {
	Encoded          string  `json:"encoded"`
	Size             int64   `json:"size"`
	SizeText         string  `json:"size_text"`
	ReductionPercent *int    `json:"reduction_percent,omitempty"`
	Width            int     `json:"width"`
	Height           float64 `json:"height"`
	SurfaceHeight    int     `json:"surface_height"`
	Quality          int     `json:"quality"`
}

func newSessionView(s *session.ImageSession) *SessionView {
	info := s.OriginalInfo()
	v := &SessionView{
		ID:               s.ID(),
		FileName:         s.FileName(),
		MediaType:        s.MediaType(),
		Original:         s.OriginalEncoded(),
		OriginalSize:     s.OriginalByteSize(),
		OriginalSizeText: report.FormatSize(s.OriginalByteSize()),
		OriginalWidth:    info.Width,
		OriginalHeight:   info.Height,
		DownloadName:     s.DownloadName(),
	}

	res := s.Result()
	if res == nil {
		return v
	}
	size := res.EstimatedSize
	v.Optimized = &OptimizedView{
		Encoded:       res.Encoded,
		Size:          size,
		SizeText:      report.FormatSize(size),
		Width:         res.Dimensions.Width,
		Height:        res.Dimensions.Height,
		SurfaceHeight: res.Surface.Y,
		Quality:       res.Quality,
	}
	if size != 0 {
		pct := report.ReductionPercent(s.OriginalByteSize(), size)
		v.Optimized.ReductionPercent = &pct
	}
	return v
}

// sliderLimits feeds the range inputs.
type sliderLimits struct {
	MinQuality, MaxQuality   int
	MinWidth, MaxWidth, Step int
}

var limits = sliderLimits{
	MinQuality: profile.MinQuality,
	MaxQuality: profile.MaxQuality,
	MinWidth:   profile.MinMaxWidth,
	MaxWidth:   profile.MaxMaxWidth,
	Step:       profile.MaxWidthStep,
}

// pageData is the model of index.html. Data URLs are wrapped in
// template.URL so html/template keeps them in src and href attributes.
type pageData struct {
	Session   *SessionView
	Original  template.URL
	Optimized template.URL
	Params    profile.Params
	Limits    sliderLimits
	Error     string
}

func newPageData(v *SessionView, p profile.Params, errMsg string) pageData {
	d := pageData{Session: v, Params: p, Limits: limits, Error: errMsg}
	if v != nil {
		d.Original = template.URL(v.Original)
		if v.Optimized != nil {
			d.Optimized = template.URL(v.Optimized.Encoded)
		}
	}
	return d
}
