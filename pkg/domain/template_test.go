package domain

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestValidateTemplateSet(t *testing.T) {
	tests := []struct {
		name    string
		files   []TemplateFile
		wantErr error
	}{
		{
			name:  "Valid Set",
			files: []TemplateFile{{Name: "package.json"}, {Name: "src/server.js"}, {Name: "Dockerfile"}},
		},
		{name: "Empty", files: nil, wantErr: ErrEmptyTemplateSet},
		{
			name:    "Duplicate",
			files:   []TemplateFile{{Name: "a"}, {Name: "a"}},
			wantErr: ErrDuplicateTemplate,
		},
		{name: "Absolute", files: []TemplateFile{{Name: "/etc/passwd"}}, wantErr: ErrInvalidTemplateName},
		{name: "Escapes Root", files: []TemplateFile{{Name: "../x"}}, wantErr: ErrInvalidTemplateName},
		{name: "Unclean", files: []TemplateFile{{Name: "a//b"}}, wantErr: ErrInvalidTemplateName},
		{name: "Blank", files: []TemplateFile{{Name: ""}}, wantErr: ErrInvalidTemplateName},
		{name: "Backslash", files: []TemplateFile{{Name: `a\b`}}, wantErr: ErrInvalidTemplateName},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateTemplateSet(tt.files)
			if tt.wantErr == nil {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, tt.wantErr), "got %v, want %v", err, tt.wantErr)
		})
	}
}

func TestMessages_WireShape(t *testing.T) {
	b, err := json.Marshal(NewWelcome())
	require.NoError(t, err)
	assert.Equal(t, `{"type":"welcome","message":"Connected to Music Box Realtime Service"}`, string(b))

	b, err = json.Marshal(NewEcho(map[string]any{"foo": "bar"}))
	require.NoError(t, err)
	assert.Equal(t, `{"type":"echo","data":{"foo":"bar"}}`, string(b))
}

func TestConnectionHooks_Merge(t *testing.T) {
	var calls []string
	a := ConnectionHooks{OnConnect: func(context.Context, *ConnectionEvent) { calls = append(calls, "a") }}
	b := ConnectionHooks{
		OnConnect:    func(context.Context, *ConnectionEvent) { calls = append(calls, "b") },
		OnDisconnect: func(context.Context, *ConnectionEvent) { calls = append(calls, "b-close") },
	}

	merged := a.Merge(b)
	merged.OnConnect(context.Background(), &ConnectionEvent{})
	merged.OnDisconnect(context.Background(), &ConnectionEvent{})

	assert.Equal(t, []string{"a", "b", "b-close"}, calls)
	assert.Nil(t, merged.OnMessage)
}
