package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestParseErrorWrapsUnderlying(t *testing.T) {
	t.Parallel()

	underlying := fmt.Errorf("unexpected token")
	err := NewParseError("startEvent", "", underlying)

	var parseErr *ParseError
	require.ErrorAs(t, err, &parseErr)
	require.Equal(t, "startEvent", parseErr.Tag)
	require.True(t, stdErrors.Is(err, underlying))
	require.Contains(t, err.Error(), "startEvent")
}

func TestReferenceErrorNamesShadowTag(t *testing.T) {
	t.Parallel()

	err := NewReferenceError("mf_1", "lane_7", "laneSet")

	var refErr *ReferenceError
	require.ErrorAs(t, err, &refErr)
	require.Equal(t, "mf_1", refErr.Flow)
	require.Contains(t, err.Error(), "laneSet")

	plain := NewReferenceError("sf_2", "ghost", "")
	require.Contains(t, plain.Error(), "not declared")
}

func TestStructuralErrorIncludesElement(t *testing.T) {
	t.Parallel()

	err := NewStructuralError("gw_1", "an event-based gateway must have at least two outgoing sequence flows")

	var structErr *StructuralError
	require.ErrorAs(t, err, &structErr)
	require.Equal(t, "gw_1", structErr.ElementID)
	require.Contains(t, err.Error(), "gw_1")
}

func TestSemanticErrorIncludesTransition(t *testing.T) {
	t.Parallel()

	err := NewSemanticError(13, "no such transition")

	var semErr *SemanticError
	require.ErrorAs(t, err, &semErr)
	require.Equal(t, 13, semErr.Transition)
	require.Contains(t, err.Error(), "13")
}
