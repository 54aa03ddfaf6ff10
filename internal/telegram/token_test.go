package telegram

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	commonerrors "github.com/sunvm/unik-registration-tg/internal/common/errors"
	"github.com/sunvm/unik-registration-tg/internal/models"
)

func TestEncodeAction(t *testing.T) {
	tests := []struct {
		name   string
		action models.PendingAction
		want   string
	}{
		{
			name:   "rules accepted",
			action: models.PendingAction{Kind: models.ActionRules, Accepted: true},
			want:   "rules:yes",
		},
		{
			name:   "rules declined",
			action: models.PendingAction{Kind: models.ActionRules, Accepted: false},
			want:   "rules:no",
		},
		{
			name:   "approve",
			action: models.PendingAction{Kind: models.ActionApprove, ApplicantID: 100, Nickname: "Steve123"},
			want:   "approve:100:Steve123",
		},
		{
			name:   "reject",
			action: models.PendingAction{Kind: models.ActionReject, ApplicantID: 100, Nickname: "Steve123"},
			want:   "reject:100:Steve123",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, EncodeAction(tt.action))
		})
	}
}

func TestDecodeAction_RoundTrip(t *testing.T) {
	actions := []models.PendingAction{
		{Kind: models.ActionRules, Accepted: true},
		{Kind: models.ActionRules, Accepted: false},
		{Kind: models.ActionApprove, ApplicantID: 100, Nickname: "Steve123"},
		{Kind: models.ActionReject, ApplicantID: 9223372036854775807, Nickname: "x"},
		// Colons in the nickname survive because only the first two
		// separators split the token.
		{Kind: models.ActionApprove, ApplicantID: 100, Nickname: "a:b:c"},
	}

	for _, action := range actions {
		decoded, err := DecodeAction(EncodeAction(action))
		require.NoError(t, err)
		assert.Equal(t, action, decoded)
	}
}

func TestDecodeAction_Malformed(t *testing.T) {
	tokens := []string{
		"",
		"rules",
		"rules:maybe",
		"approve",
		"approve:100",
		"approve:100:",
		"approve:abc:Steve123",
		"approve:-5:Steve123",
		"ban:100:Steve123",
		"yes",
	}

	for _, token := range tokens {
		t.Run(token, func(t *testing.T) {
			_, err := DecodeAction(token)
			require.Error(t, err)
			assert.Equal(t, commonerrors.ErrCodeInvalidToken, commonerrors.CodeOf(err))
		})
	}
}
