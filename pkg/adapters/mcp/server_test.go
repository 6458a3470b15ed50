package mcp

import (
	"context"
	"testing"

	"github.com/hodaniel/graphwalker/pkg/adapters/memory"
	"github.com/hodaniel/graphwalker/pkg/domain"
	"github.com/hodaniel/graphwalker/pkg/dsl"
	"github.com/hodaniel/graphwalker/pkg/session"
	"github.com/mark3labs/mcp-go/mcp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	store := memory.NewStore()
	model := dsl.New("ring").
		Edge("e1", "a", "b").
		Edge("e2", "b", "c").
		Edge("e3", "c", "a").
		MustBuild()
	require.NoError(t, store.Save(context.Background(), model))
	return NewServer(session.NewManager(store))
}

func TestTools_Walk(t *testing.T) {
	s := newTestServer(t)
	ctx := context.Background()

	models, err := s.handleListModels(ctx, mcp.CallToolRequest{}, struct{}{})
	require.NoError(t, err)
	assert.Equal(t, []string{"ring"}, models.Models)

	info, err := s.handleCreateSession(ctx, mcp.CallToolRequest{}, CreateSessionArgs{
		Model:    "ring",
		Strategy: `{"phases":[{"generator":"a_star","stop_condition":{"type":"edge_coverage"}}]}`,
	})
	require.NoError(t, err)
	args := SessionArgs{SessionID: info.ID}

	var edges []string
	for {
		has, err := s.handleHasNext(ctx, mcp.CallToolRequest{}, args)
		require.NoError(t, err)
		if !has.HasNext {
			break
		}
		next, err := s.handleGetNext(ctx, mcp.CallToolRequest{}, args)
		require.NoError(t, err)
		edges = append(edges, next.Step.Edge)
	}
	assert.Equal(t, []string{"e1", "e2", "e3"}, edges)

	next, err := s.handleGetNext(ctx, mcp.CallToolRequest{}, args)
	require.NoError(t, err)
	assert.True(t, next.Exhausted)

	stats, err := s.handleStatistics(ctx, mcp.CallToolRequest{}, args)
	require.NoError(t, err)
	assert.Equal(t, 3, stats.VisitedVertices)

	out, err := s.sessionGraph(ctx, info.ID)
	require.NoError(t, err)
	assert.Contains(t, out, "class a current;")
}

func TestTools_ErrorsBecomeToolResults(t *testing.T) {
	s := newTestServer(t)
	handler := mcp.NewStructuredToolHandler(s.handleGetNext)

	req := mcp.CallToolRequest{}
	req.Params.Name = "get_next"
	req.Params.Arguments = map[string]any{"session_id": "missing"}

	res, err := handler(context.Background(), req)
	require.NoError(t, err)
	assert.True(t, res.IsError)

	_, err = s.handleCreateSession(context.Background(), mcp.CallToolRequest{}, CreateSessionArgs{Model: "ghost"})
	assert.ErrorIs(t, err, domain.ErrModelNotFound)

	_, err = s.handleCreateSession(context.Background(), mcp.CallToolRequest{}, CreateSessionArgs{Model: "ring", Strategy: "{"})
	assert.Error(t, err)
}
