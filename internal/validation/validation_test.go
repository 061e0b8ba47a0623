// Copyright (c) 2025-2026 Oleg Ivanchenko
// SPDX-License-Identifier: GPL-3.0-or-later

package validation

import (
	"encoding/json"
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/olegiv/airdrops-hunter/internal/model"
)

func decode[T any](t *testing.T, body string) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal([]byte(body), &v))
	return v
}

func validationErrors(t *testing.T, err error) Errors {
	t.Helper()
	var errs Errors
	require.True(t, errors.As(err, &errs), "expected Errors, got %v", err)
	return errs
}

const validAirdrop = `{
	"title": "MoonToken Airdrop",
	"projectName": "MoonToken",
	"description": "Participate in the community airdrop.",
	"category": "DeFi",
	"estimatedValue": "$50-$200",
	"status": "Active"
}`

func TestAirdropRequest_Valid(t *testing.T) {
	req := decode[AirdropRequest](t, validAirdrop)
	require.NoError(t, Validate(req))

	in := req.Input()
	assert.Equal(t, "MoonToken Airdrop", in.Title)
	assert.Equal(t, int64(0), in.Participants)
	assert.Nil(t, in.Requirements)
	assert.Nil(t, in.StartDate)
}

func TestAirdropRequest_AllFieldsReported(t *testing.T) {
	req := decode[AirdropRequest](t, `{
		"title": "ab",
		"projectName": "M",
		"description": "short",
		"category": "",
		"estimatedValue": "",
		"status": "",
		"logoUrl": "not a url",
		"startDate": "yesterday",
		"participants": -5
	}`)

	errs := validationErrors(t, Validate(req))
	for _, field := range []string{
		"title", "projectName", "description", "category", "estimatedValue",
		"status", "logoUrl", "startDate", "participants",
	} {
		assert.True(t, errs.Has(field), "expected error for %s in %v", field, errs)
	}
	assert.False(t, errs.Has("coverImageUrl"))
}

func TestRequests_ColumnWidths(t *testing.T) {
	long := func(n int) string { return strings.Repeat("a", n) }
	str := func(s string) *string { return &s }
	airdrop := func(mut func(*AirdropRequest)) AirdropRequest {
		r := decode[AirdropRequest](t, validAirdrop)
		mut(&r)
		return r
	}

	tests := []struct {
		name  string
		req   any
		field string
	}{
		{"airdrop title", airdrop(func(r *AirdropRequest) { r.Title = long(256) }), "title"},
		{"airdrop project", airdrop(func(r *AirdropRequest) { r.ProjectName = long(256) }), "projectName"},
		{"airdrop category", airdrop(func(r *AirdropRequest) { r.Category = long(192) }), "category"},
		{"airdrop value", airdrop(func(r *AirdropRequest) { r.EstimatedValue = long(192) }), "estimatedValue"},
		{"airdrop status", airdrop(func(r *AirdropRequest) { r.Status = long(65) }), "status"},
		{"airdrop patch title", AirdropPatchRequest{Title: str(long(300))}, "title"},
		{"airdrop patch status", AirdropPatchRequest{Status: str(long(65))}, "status"},
		{"blog title", BlogPostRequest{Title: long(256), Content: "Protect yourself.", Category: "Security"}, "title"},
		{"blog patch category", BlogPostPatchRequest{Category: str(long(192))}, "category"},
		{"username", RegisterRequest{Username: long(192), Email: "a@b.io", Password: "secret1"}, "username"},
		{"contact subject", ContactRequest{Name: "Alice", Email: "a@b.io", Subject: long(256), Message: "Long enough message."}, "subject"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			errs := validationErrors(t, Validate(tt.req))
			require.Len(t, errs, 1, "%v", errs)
			assert.Equal(t, tt.field, errs[0].Field)
			assert.Contains(t, errs[0].Message, "at most")
		})
	}

	atLimit := airdrop(func(r *AirdropRequest) {
		r.Title = long(255)
		r.Category = long(191)
		r.Status = long(64)
	})
	assert.NoError(t, Validate(atLimit))
}

func TestErrors_Error(t *testing.T) {
	req := decode[AirdropRequest](t, `{"title": "ab", "projectName": "MoonToken",
		"description": "Participate in the community airdrop.", "category": "DeFi",
		"estimatedValue": "$1", "status": "Active"}`)

	err := Validate(req)
	require.Error(t, err)
	assert.Equal(t, "title: must be at least 3 characters", err.Error())
}

func TestAirdropRequest_Participants(t *testing.T) {
	tests := []struct {
		name    string
		value   string
		want    int64
		wantErr bool
	}{
		{"number", `12`, 12, false},
		{"numeric string", `"10543"`, 10543, false},
		{"zero", `0`, 0, false},
		{"whole float", `7.0`, 7, false},
		{"negative", `-1`, 0, true},
		{"fraction", `1.5`, 0, true},
		{"text", `"many"`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var m map[string]any
			require.NoError(t, json.Unmarshal([]byte(validAirdrop), &m))
			m["participants"] = json.RawMessage(tt.value)
			body, err := json.Marshal(m)
			require.NoError(t, err)

			req := decode[AirdropRequest](t, string(body))
			err = Validate(req)
			if tt.wantErr {
				assert.True(t, validationErrors(t, err).Has("participants"))
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, req.Input().Participants)
		})
	}
}

func TestAirdropRequest_Dates(t *testing.T) {
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(validAirdrop), &m))
	m["startDate"] = "2023-06-01"
	m["endDate"] = "2023-07-10T12:30:00+02:00"
	body, _ := json.Marshal(m)

	req := decode[AirdropRequest](t, string(body))
	require.NoError(t, Validate(req))

	in := req.Input()
	require.NotNil(t, in.StartDate)
	require.NotNil(t, in.EndDate)
	assert.True(t, in.StartDate.Equal(time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC)))
	assert.True(t, in.EndDate.Equal(time.Date(2023, 7, 10, 10, 30, 0, 0, time.UTC)))
	assert.Equal(t, time.UTC, in.EndDate.Location())
}

func TestAirdropRequest_BlankURLIsNull(t *testing.T) {
	var m map[string]any
	require.NoError(t, json.Unmarshal([]byte(validAirdrop), &m))
	m["logoUrl"] = ""
	body, _ := json.Marshal(m)

	req := decode[AirdropRequest](t, string(body))
	require.NoError(t, Validate(req))
	assert.Nil(t, req.Input().LogoURL)
}

func TestAirdropPatchRequest(t *testing.T) {
	t.Run("empty", func(t *testing.T) {
		req := decode[AirdropPatchRequest](t, `{}`)
		require.NoError(t, Validate(req))
		assert.True(t, req.Patch().IsEmpty())
	})

	t.Run("present fields are checked", func(t *testing.T) {
		req := decode[AirdropPatchRequest](t, `{"title": "", "status": "Active"}`)
		errs := validationErrors(t, Validate(req))
		assert.True(t, errs.Has("title"))
		assert.False(t, errs.Has("status"))
		assert.False(t, errs.Has("description"))
	})

	t.Run("explicit null clears", func(t *testing.T) {
		req := decode[AirdropPatchRequest](t, `{"requirements": null, "logoUrl": null, "endDate": null}`)
		require.NoError(t, Validate(req))

		p := req.Patch()
		assert.True(t, p.Requirements.Set)
		assert.Nil(t, p.Requirements.Value)
		assert.True(t, p.LogoURL.Set)
		assert.True(t, p.EndDate.Set)
		assert.Nil(t, p.EndDate.Value)
		assert.False(t, p.StartDate.Set)
	})

	t.Run("invalid nullable value", func(t *testing.T) {
		req := decode[AirdropPatchRequest](t, `{"coverImageUrl": "nope", "startDate": "June"}`)
		errs := validationErrors(t, Validate(req))
		assert.True(t, errs.Has("coverImageUrl"))
		assert.True(t, errs.Has("startDate"))
	})

	t.Run("participants as string", func(t *testing.T) {
		req := decode[AirdropPatchRequest](t, `{"participants": "42"}`)
		require.NoError(t, Validate(req))
		p := req.Patch()
		require.NotNil(t, p.Participants)
		assert.Equal(t, int64(42), *p.Participants)
	})
}

func TestBlogPostRequests(t *testing.T) {
	req := decode[BlogPostRequest](t, `{"title": "Hi", "content": "too short", "category": "",
		"imageUrl": "ftp//bad", "authorId": 0}`)
	errs := validationErrors(t, Validate(req))
	for _, field := range []string{"title", "content", "category", "imageUrl", "authorId"} {
		assert.True(t, errs.Has(field), field)
	}

	ok := decode[BlogPostRequest](t, `{"title": "Security Tips", "content": "Protect yourself from scams.",
		"category": "Security", "publishedAt": "2023-06-05"}`)
	require.NoError(t, Validate(ok))
	in := ok.Input()
	require.NotNil(t, in.PublishedAt)
	assert.Equal(t, 2023, in.PublishedAt.Year())

	patch := decode[BlogPostPatchRequest](t, `{"tags": null, "authorId": 3}`)
	require.NoError(t, Validate(patch))
	p := patch.Patch()
	assert.True(t, p.Tags.Set)
	assert.Nil(t, p.Tags.Value)
	require.NotNil(t, p.AuthorID.Value)
	assert.Equal(t, int64(3), *p.AuthorID.Value)

	bad := decode[BlogPostPatchRequest](t, `{"authorId": 0}`)
	assert.True(t, validationErrors(t, Validate(bad)).Has("authorId"))
}

func TestRegisterRequest(t *testing.T) {
	req := decode[RegisterRequest](t, `{"username": "al", "email": "nope", "password": "123"}`)
	errs := validationErrors(t, Validate(req))
	assert.Len(t, errs, 3)
	assert.True(t, errs.Has("username"))
	assert.True(t, errs.Has("email"))
	assert.True(t, errs.Has("password"))

	ok := decode[RegisterRequest](t, `{"username": "alice", "email": "alice@example.com", "password": "secret1"}`)
	assert.NoError(t, Validate(ok))
	assert.False(t, ok.IsAdmin)
}

func TestRegisterForm_ConfirmPassword(t *testing.T) {
	form := RegisterForm{Username: "alice", Email: "alice@example.com", Password: "secret1", ConfirmPassword: "secret2"}
	errs := validationErrors(t, Validate(form))
	require.Len(t, errs, 1)
	assert.Equal(t, "confirmPassword", errs[0].Field)
	assert.Equal(t, "must match password", errs[0].Message)

	form.ConfirmPassword = "secret1"
	require.NoError(t, Validate(form))
	assert.Equal(t, "alice", form.Request().Username)
}

func TestInboxRequests(t *testing.T) {
	assert.True(t, validationErrors(t, Validate(NewsletterRequest{Email: "x"})).Has("email"))
	assert.NoError(t, Validate(NewsletterRequest{Email: "a@b.io"}))

	errs := validationErrors(t, Validate(ContactRequest{Name: "A", Email: "bad", Message: "short"}))
	assert.Len(t, errs, 4)

	assert.NoError(t, Validate(ContactRequest{
		Name:    "Alice",
		Email:   "alice@example.com",
		Subject: "Partnership",
		Message: "I'd like to list my project.",
	}))
}

func TestLoginRequest(t *testing.T) {
	errs := validationErrors(t, Validate(LoginRequest{}))
	assert.True(t, errs.Has("username"))
	assert.True(t, errs.Has("password"))
	assert.NoError(t, Validate(LoginRequest{Username: "a", Password: "b"}))
}

func TestParseDate(t *testing.T) {
	_, err := ParseDate("2023-13-01")
	assert.Error(t, err)

	d, err := ParseDate(" 2024-02-29 ")
	require.NoError(t, err)
	assert.Equal(t, time.February, d.Month())
}

func TestCount_MarshalJSON(t *testing.T) {
	data, err := json.Marshal(CountOf(42))
	require.NoError(t, err)
	assert.Equal(t, "42", string(data))

	var c Count
	require.NoError(t, json.Unmarshal([]byte(`"lots"`), &c))
	data, err = json.Marshal(c)
	require.NoError(t, err)
	assert.Equal(t, `"lots"`, string(data))
}

func TestAirdropPatchRequest_EncodesOnlySetFields(t *testing.T) {
	title := "Renamed"
	data, err := json.Marshal(AirdropPatchRequest{
		Title:   &title,
		LogoURL: model.Null[string](),
	})
	require.NoError(t, err)
	assert.JSONEq(t, `{"title":"Renamed","logoUrl":null}`, string(data))
}
