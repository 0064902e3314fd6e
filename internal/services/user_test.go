package services

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
)

// Guards that run before any datastore access.

func TestDeleteUserSelfDeletionForbidden(t *testing.T) {
	s := &UserService{}
	err := s.DeleteUser(context.Background(), "64f000000000000000000001", "64f000000000000000000001")
	assert.ErrorIs(t, err, ErrSelfDelete)
}

func TestDeleteUserMalformedID(t *testing.T) {
	s := &UserService{}
	err := s.DeleteUser(context.Background(), "64f000000000000000000001", "not-an-id")
	assert.ErrorIs(t, err, ErrInvalidID)
}

func TestApproveRejectsExplicitNonAdminRole(t *testing.T) {
	s := &UserService{}
	for _, role := range []string{"super-admin", "pending", "owner"} {
		_, err := s.Approve(context.Background(), "64f000000000000000000002", "64f000000000000000000001", role)
		assert.ErrorIs(t, err, ErrInvalidRole, "role %q", role)
	}
}

func TestGetUserMalformedID(t *testing.T) {
	s := &UserService{}
	_, err := s.GetUser(context.Background(), "not-an-id")
	assert.ErrorIs(t, err, ErrInvalidID)
}
