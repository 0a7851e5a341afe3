package ui

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestView_StartsLoading(t *testing.T) {
	assert.Equal(t, StateLoading, NewView().State())
}

func TestView_LoadingToResults(t *testing.T) {
	v := NewView()
	require.NoError(t, v.Transition(StateResults))
	assert.Equal(t, StateResults, v.State())
}

func TestView_ResultsRequireNewLoad(t *testing.T) {
	v := NewView()
	require.NoError(t, v.Transition(StateResults))

	assert.Error(t, v.Transition(StateNoProduct))
	assert.Error(t, v.Transition(StateError))
	require.NoError(t, v.Transition(StateLoading))
	require.NoError(t, v.Transition(StateError))
}

func TestView_NoProductToResultsIsInvalid(t *testing.T) {
	v := NewView()
	require.NoError(t, v.Transition(StateNoProduct))
	assert.Error(t, v.Transition(StateResults))
}
