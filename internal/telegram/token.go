package telegram

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/sunvm/unik-registration-tg/internal/common/errors"
	"github.com/sunvm/unik-registration-tg/internal/models"
)

// Callback tokens are the only place where pending actions travel in string
// form. Rules acknowledgments encode as "rules:yes" or "rules:no"; review
// decisions encode as "approve:<applicantID>:<nickname>" and
// "reject:<applicantID>:<nickname>".

// EncodeAction serializes a pending action into a callback token.
func EncodeAction(action models.PendingAction) string {
	switch action.Kind {
	case models.ActionRules:
		if action.Accepted {
			return "rules:yes"
		}
		return "rules:no"
	case models.ActionApprove, models.ActionReject:
		return fmt.Sprintf("%s:%d:%s", action.Kind, action.ApplicantID, action.Nickname)
	default:
		return ""
	}
}

// DecodeAction parses a callback token back into a pending action. Tokens
// that do not match any known shape are rejected; nicknames keep whatever
// characters they were submitted with, including colons.
func DecodeAction(token string) (models.PendingAction, error) {
	parts := strings.SplitN(token, ":", 3)
	switch models.ActionKind(parts[0]) {
	case models.ActionRules:
		if len(parts) != 2 {
			return models.PendingAction{}, errors.NewInvalidTokenError(token)
		}
		switch parts[1] {
		case "yes":
			return models.PendingAction{Kind: models.ActionRules, Accepted: true}, nil
		case "no":
			return models.PendingAction{Kind: models.ActionRules, Accepted: false}, nil
		}
		return models.PendingAction{}, errors.NewInvalidTokenError(token)

	case models.ActionApprove, models.ActionReject:
		if len(parts) != 3 || parts[2] == "" {
			return models.PendingAction{}, errors.NewInvalidTokenError(token)
		}
		applicantID, err := strconv.ParseInt(parts[1], 10, 64)
		if err != nil || applicantID <= 0 {
			return models.PendingAction{}, errors.NewInvalidTokenError(token)
		}
		return models.PendingAction{
			Kind:        models.ActionKind(parts[0]),
			ApplicantID: applicantID,
			Nickname:    parts[2],
		}, nil
	}
	return models.PendingAction{}, errors.NewInvalidTokenError(token)
}
