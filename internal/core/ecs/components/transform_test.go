package components

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"nightswarm/internal/core/ecs"
)

func Test_Transform_CreateAndInitialize(t *testing.T) {
	transform := NewTransform()

	assert.Equal(t, ecs.ComponentTypeTransform, transform.Type())
	assert.Equal(t, ecs.Vector2{X: 0, Y: 0}, transform.Position)
	assert.Equal(t, 0.0, transform.Rotation)
	assert.Equal(t, ecs.Vector2{X: 1, Y: 1}, transform.Scale)
}

func Test_Transform_Serialization(t *testing.T) {
	transform := NewTransform()
	transform.Position = ecs.Vector2{X: 10, Y: 20}
	transform.Rotation = 1.5
	transform.Scale = ecs.Vector2{X: 2, Y: 3}

	data, err := transform.Serialize()
	assert.NoError(t, err)
	assert.NotEmpty(t, data)

	roundTripped := NewTransform()
	assert.NoError(t, roundTripped.Deserialize(data))
	assert.Equal(t, transform.Position, roundTripped.Position)
	assert.Equal(t, transform.Rotation, roundTripped.Rotation)
	assert.Equal(t, transform.Scale, roundTripped.Scale)
}

func Test_Transform_Clone(t *testing.T) {
	original := NewTransform()
	original.Position = ecs.Vector2{X: 15, Y: 25}

	cloned := original.Clone()

	assert.NotSame(t, original, cloned)
	clonedTransform := cloned.(*Transform)
	assert.Equal(t, original.Position, clonedTransform.Position)

	clonedTransform.Position = ecs.Vector2{X: 0, Y: 0}
	assert.NotEqual(t, original.Position, clonedTransform.Position)
}

func Test_Transform_Reset(t *testing.T) {
	transform := NewTransform()
	transform.Position = ecs.Vector2{X: 5, Y: 5}
	transform.Rotation = 2.0
	transform.Scale = ecs.Vector2{X: 4, Y: 4}

	transform.Reset()

	assert.Equal(t, ecs.Vector2{}, transform.Position)
	assert.Equal(t, 0.0, transform.Rotation)
	assert.Equal(t, ecs.Vector2{X: 1, Y: 1}, transform.Scale)
}
