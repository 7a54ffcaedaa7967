package blob

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/interview-screener/internal/faults"
)

func TestMemoryPutGet(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "cand-1/questions/q1.wav", "audio/wav", []byte{1, 2, 3}))

	data, contentType, err := m.Get(ctx, "cand-1/questions/q1.wav")
	require.NoError(t, err)
	assert.Equal(t, []byte{1, 2, 3}, data)
	assert.Equal(t, "audio/wav", contentType)
}

func TestMemoryGetMissingIsNotFound(t *testing.T) {
	m := NewMemory()

	_, _, err := m.Get(context.Background(), "nope")
	assert.True(t, faults.IsNotFound(err))
}

func TestMemoryPutOverwrites(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "ref", "audio/wav", []byte("old")))
	require.NoError(t, m.Put(ctx, "ref", "application/json", []byte("new")))

	data, contentType, err := m.Get(ctx, "ref")
	require.NoError(t, err)
	assert.Equal(t, "new", string(data))
	assert.Equal(t, "application/json", contentType)
	assert.Equal(t, 1, m.Len())
}

func TestMemoryRejectsEmptyRef(t *testing.T) {
	m := NewMemory()
	err := m.Put(context.Background(), "", "audio/wav", []byte{1})
	assert.True(t, faults.IsValidation(err))
}

func TestMemoryCopiesData(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	src := []byte{1, 2, 3}
	require.NoError(t, m.Put(ctx, "ref", "audio/wav", src))
	src[0] = 99

	data, _, err := m.Get(ctx, "ref")
	require.NoError(t, err)
	assert.Equal(t, byte(1), data[0], "stored bytes must not alias the caller's slice")

	data[1] = 98
	again, _, err := m.Get(ctx, "ref")
	require.NoError(t, err)
	assert.Equal(t, byte(2), again[1], "returned bytes must not alias the stored slice")
}

func TestMemoryDelete(t *testing.T) {
	m := NewMemory()
	ctx := context.Background()

	require.NoError(t, m.Put(ctx, "ref", "audio/wav", []byte{1}))
	require.NoError(t, m.Delete(ctx, "ref"))

	_, _, err := m.Get(ctx, "ref")
	assert.True(t, faults.IsNotFound(err))

	require.NoError(t, m.Delete(ctx, "ref"), "deleting a missing ref is not an error")
}

func TestReferenceLayout(t *testing.T) {
	assert.Equal(t, "cand-9f2/questions/q1.wav", QuestionRef("cand-9f2", "q1"))
	assert.Equal(t, "cand-9f2/answers/q1.wav", AnswerRef("cand-9f2", "q1"))
	assert.Equal(t, "cand-9f2/answers/q1.norm.wav", NormalizedAnswerRef("cand-9f2", "q1"))
	assert.Equal(t, "cand-9f2/reports/report.json", ReportRef("cand-9f2"))
}
