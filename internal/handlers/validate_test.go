// Copyright (c) 2026 Glinda S.r.l. <dev@glinda.it>
// All rights reserved. See LICENSE for details.

package handlers

import (
	"testing"

	"github.com/google/uuid"
)

func intPtr(i int) *int { return &i }

func validContentPayload() contentPayload {
	return contentPayload{
		Type:        "course",
		Title:       "Corso di nuoto",
		Slug:        "corso-di-nuoto",
		Description: "Descrizione.",
		City:        "Milano",
		AgeMin:      intPtr(4),
		AgeMax:      intPtr(8),
		CategoryID:  uuid.NewString(),
		Status:      "published",
	}
}

func TestContentPayloadValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*contentPayload)
		wantErr bool
	}{
		{name: "valid", mutate: func(p *contentPayload) {}},
		{name: "empty slug allowed", mutate: func(p *contentPayload) { p.Slug = "" }},
		{name: "empty category allowed", mutate: func(p *contentPayload) { p.CategoryID = "" }},
		{name: "nil ages allowed", mutate: func(p *contentPayload) { p.AgeMin, p.AgeMax = nil, nil }},
		{name: "missing title", mutate: func(p *contentPayload) { p.Title = "" }, wantErr: true},
		{name: "unknown type", mutate: func(p *contentPayload) { p.Type = "webinar" }, wantErr: true},
		{name: "unknown status", mutate: func(p *contentPayload) { p.Status = "archived" }, wantErr: true},
		{name: "uppercase slug", mutate: func(p *contentPayload) { p.Slug = "Corso-Nuoto" }, wantErr: true},
		{name: "slug with spaces", mutate: func(p *contentPayload) { p.Slug = "corso nuoto" }, wantErr: true},
		{name: "malformed category id", mutate: func(p *contentPayload) { p.CategoryID = "not-a-uuid" }, wantErr: true},
		{name: "negative age", mutate: func(p *contentPayload) { p.AgeMin = intPtr(-1) }, wantErr: true},
		{name: "age above range", mutate: func(p *contentPayload) { p.AgeMax = intPtr(25) }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := validContentPayload()
			tt.mutate(&p)
			err := p.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestCategoryPayloadValidate(t *testing.T) {
	tests := []struct {
		name    string
		payload categoryPayload
		wantErr bool
	}{
		{name: "valid", payload: categoryPayload{Name: "Nuoto", Slug: "nuoto"}},
		{name: "empty slug allowed", payload: categoryPayload{Name: "Nuoto"}},
		{name: "missing name", payload: categoryPayload{Slug: "nuoto"}, wantErr: true},
		{name: "bad slug", payload: categoryPayload{Name: "Nuoto", Slug: "Nuoto!"}, wantErr: true},
		{name: "negative sort order", payload: categoryPayload{Name: "Nuoto", SortOrder: -1}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}

func TestLoginPayloadValidate(t *testing.T) {
	tests := []struct {
		name    string
		payload loginPayload
		wantErr bool
	}{
		{name: "valid", payload: loginPayload{Email: "admin@glinda.local", Password: "admin"}},
		{name: "missing email", payload: loginPayload{Password: "admin"}, wantErr: true},
		{name: "malformed email", payload: loginPayload{Email: "not-an-email", Password: "admin"}, wantErr: true},
		{name: "missing password", payload: loginPayload{Email: "admin@glinda.local"}, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.payload.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
		})
	}
}
