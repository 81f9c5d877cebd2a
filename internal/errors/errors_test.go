package errors

import (
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestKindOf(t *testing.T) {
	assert.Equal(t, KindNotFound, KindOf(ErrArticleNotFound))
	assert.Equal(t, KindNotFound, KindOf(fmt.Errorf("get post: %w", ErrArticleNotFound)))
	assert.Equal(t, KindValidation, KindOf(NewValidation("title is required")))
	assert.Equal(t, KindStorage, KindOf(errors.New("connection reset by peer")))
}

func TestMapErrorToHTTP(t *testing.T) {
	tests := []struct {
		name       string
		err        error
		wantStatus int
		wantMsg    string
	}{
		{"not found", ErrUserNotFound, http.StatusNotFound, "user not found"},
		{"wrapped validation", fmt.Errorf("create: %w", ErrUsernameTaken), http.StatusBadRequest, "username is already taken"},
		{"forbidden", ErrForbidden, http.StatusForbidden, "access denied"},
		{"unauthorized", ErrUnauthorized, http.StatusUnauthorized, "login required"},
		{"storage fault hides details", errors.New("dial tcp 10.0.0.1:5432: i/o timeout"), http.StatusInternalServerError, "something went wrong, please try again later"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			httpErr := MapErrorToHTTP(tt.err)
			assert.Equal(t, tt.wantStatus, httpErr.StatusCode)
			assert.Equal(t, tt.wantMsg, httpErr.ToErrorResponse().Error)
		})
	}
}
