package db

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"go.mongodb.org/mongo-driver/mongo"
)

func TestErrorHelpers(t *testing.T) {
	notFound := &NotFoundError{Key: "k", Message: "stake not found"}
	assert.True(t, IsNotFoundError(notFound))
	assert.True(t, IsNotFoundError(fmt.Errorf("wrapped: %w", notFound)))
	assert.False(t, IsNotFoundError(errors.New("other")))
	assert.False(t, IsDuplicateKeyError(notFound))

	dup := asDuplicateKeyError(mongo.WriteException{
		WriteErrors: []mongo.WriteError{{Code: 11000, Message: "E11000 duplicate key error"}},
	}, "k", "stake already exists")
	assert.True(t, IsDuplicateKeyError(dup))
	assert.Equal(t, "stake already exists", dup.Error())

	plain := errors.New("connection reset")
	assert.Equal(t, plain, asDuplicateKeyError(plain, "k", "stake already exists"))
}
