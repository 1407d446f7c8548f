package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/bson/primitive"
)

func TestFilterBuilder_Empty(t *testing.T) {
	filter, err := NewFilterBuilder("status").Build()
	require.NoError(t, err)
	assert.Equal(t, bson.M{}, filter)
}

func TestFilterBuilder_Eq_SkipsEmptyStrings(t *testing.T) {
	filter, err := NewFilterBuilder("status", "category").
		Eq("status", "active").
		Eq("category", "").
		Build()
	require.NoError(t, err)

	assert.Equal(t, bson.M{"status": bson.M{"$eq": "active"}}, filter)
}

func TestFilterBuilder_ObjectID(t *testing.T) {
	id := primitive.NewObjectID()

	filter, err := NewFilterBuilder("user_id").ObjectID("user_id", id.Hex()).Build()
	require.NoError(t, err)
	assert.Equal(t, bson.M{"user_id": bson.M{"$eq": id}}, filter)

	_, err = NewFilterBuilder("user_id").ObjectID("user_id", "not-a-hex").Build()
	assert.Error(t, err)

	filter, err = NewFilterBuilder("user_id").ObjectID("user_id", "").Build()
	require.NoError(t, err)
	assert.Equal(t, bson.M{}, filter)
}

func TestFilterBuilder_DateRange_MergesBounds(t *testing.T) {
	from := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, 2, 1, 0, 0, 0, 0, time.UTC)

	filter, err := NewFilterBuilder("created_at").DateRange("created_at", &from, &to).Build()
	require.NoError(t, err)

	assert.Equal(t, bson.M{"created_at": bson.M{"$gte": from, "$lte": to}}, filter)
}

func TestFilterBuilder_RejectsUnknownFields(t *testing.T) {
	_, err := NewFilterBuilder("status").Eq("password_hash", "x").Build()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not filterable")
}
