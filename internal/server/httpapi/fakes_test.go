package httpapi

import (
	"context"

	"github.com/dmitrijs2005/smartnotes/internal/common"
	"github.com/dmitrijs2005/smartnotes/internal/logging"
)

type nopLoggerBase struct{}

func (nopLoggerBase) Debug(context.Context, string, ...any) {}
func (nopLoggerBase) Info(context.Context, string, ...any)  {}
func (nopLoggerBase) Warn(context.Context, string, ...any)  {}
func (nopLoggerBase) Error(context.Context, string, ...any) {}
func (n nopLoggerBase) With(...any) logging.Logger          { return n }

type fakeUsers struct {
	UserService
	tokens map[string]string
}

func (f *fakeUsers) Resolve(_ context.Context, token string) (string, error) {
	if id, ok := f.tokens[token]; ok {
		return id, nil
	}
	return "", common.ErrorUnauthorized
}

type fakePin struct {
	PinService
	grants map[string]string
}

func (f *fakePin) CheckGrant(_ context.Context, userID, token string) error {
	if f.grants[token] == userID {
		return nil
	}
	return common.ErrPinRequired
}
