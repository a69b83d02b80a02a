package search_service_api

import (
	"context"
	"errors"
	"net"
	"testing"

	"github.com/Domenick1991/roundtrip/internal/domain"
	"github.com/Domenick1991/roundtrip/internal/service/search"
	"github.com/Domenick1991/roundtrip/internal/window"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/credentials/insecure"
	"google.golang.org/grpc/status"
	"google.golang.org/grpc/test/bufconn"
	"google.golang.org/protobuf/types/known/structpb"
)

type MockSearchUseCase struct {
	mock.Mock
}

func (m *MockSearchUseCase) Search(ctx context.Context, input search.SearchInput) (*domain.Search, error) {
	args := m.Called(ctx, input)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Search), args.Error(1)
}

func (m *MockSearchUseCase) Get(ctx context.Context, id string) (*domain.Search, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Search), args.Error(1)
}

func (m *MockSearchUseCase) Itinerary(ctx context.Context, id string, index int) (*domain.Itinerary, error) {
	args := m.Called(ctx, id, index)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Itinerary), args.Error(1)
}

func (m *MockSearchUseCase) Timeline(ctx context.Context, id string) (*search.TimelineView, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*search.TimelineView), args.Error(1)
}

func (m *MockSearchUseCase) Airport(ctx context.Context, code string) (*domain.Airport, error) {
	args := m.Called(ctx, code)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*domain.Airport), args.Error(1)
}

func startServer(t *testing.T, uc search.SearchUseCase) *Client {
	t.Helper()
	lis := bufconn.Listen(1 << 20)
	srv := grpc.NewServer()
	RegisterSearchServiceServer(srv, NewServer(uc))
	go func() { _ = srv.Serve(lis) }()
	t.Cleanup(srv.Stop)

	conn, err := grpc.NewClient("passthrough:///bufnet",
		grpc.WithContextDialer(func(ctx context.Context, _ string) (net.Conn, error) {
			return lis.DialContext(ctx)
		}),
		grpc.WithTransportCredentials(insecure.NewCredentials()),
	)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })
	return NewClient(conn)
}

func mustStruct(t *testing.T, m map[string]interface{}) *structpb.Struct {
	t.Helper()
	s, err := structpb.NewStruct(m)
	require.NoError(t, err)
	return s
}

func TestServer_Search(t *testing.T) {
	uc := &MockSearchUseCase{}
	client := startServer(t, uc)

	expected := search.SearchInput{
		Origin:      "SFO",
		Destination: "BOS",
		Outbound:    window.Input{After: window.Bound{Date: "2026-03-10"}},
		Return:      window.Input{After: window.Bound{Date: "2026-03-12"}},
	}
	uc.On("Search", mock.Anything, expected).Return(&domain.Search{
		ID:          "abc12345",
		Itineraries: []domain.Itinerary{{TotalPrice: 450, DestHours: 38}},
		Frontier:    []int{0},
	}, nil)

	resp, err := client.Call(context.Background(), "Search", mustStruct(t, map[string]interface{}{
		"origin":      "SFO",
		"destination": "BOS",
		"outbound":    map[string]interface{}{"after": map[string]interface{}{"date": "2026-03-10"}},
		"return":      map[string]interface{}{"after": map[string]interface{}{"date": "2026-03-12"}},
	}))
	require.NoError(t, err)

	got := resp.AsMap()
	assert.Equal(t, "abc12345", got["id"])
	its := got["itineraries"].([]interface{})
	require.Len(t, its, 1)
	assert.Equal(t, float64(450), its[0].(map[string]interface{})["total_price"])
	uc.AssertExpectations(t)
}

func TestServer_GetItinerary(t *testing.T) {
	uc := &MockSearchUseCase{}
	client := startServer(t, uc)
	uc.On("Itinerary", mock.Anything, "abc12345", 1).Return(&domain.Itinerary{TotalPrice: 500}, nil)

	resp, err := client.Call(context.Background(), "GetItinerary", mustStruct(t, map[string]interface{}{
		"id":    "abc12345",
		"index": 1,
	}))
	require.NoError(t, err)
	assert.Equal(t, float64(500), resp.AsMap()["total_price"])
}

func TestServer_ErrorCodes(t *testing.T) {
	testCases := []struct {
		name string
		err  error
		code codes.Code
	}{
		{name: "validation", err: &search.ValidationError{Field: "origin", Reason: "airport code is required"}, code: codes.InvalidArgument},
		{name: "not found", err: search.ErrNotFound, code: codes.NotFound},
		{name: "query", err: &search.QueryError{Direction: domain.DirectionOutbound, Date: "2026-03-10", Attempts: 4, Err: errors.New("503")}, code: codes.Unavailable},
		{name: "other", err: errors.New("boom"), code: codes.Internal},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			uc := &MockSearchUseCase{}
			client := startServer(t, uc)
			uc.On("Get", mock.Anything, "abc12345").Return(nil, tc.err)

			_, err := client.Call(context.Background(), "GetSearch", mustStruct(t, map[string]interface{}{"id": "abc12345"}))
			require.Error(t, err)
			assert.Equal(t, tc.code, status.Code(err))
		})
	}
}

func TestServer_GetAirportAndTimeline(t *testing.T) {
	uc := &MockSearchUseCase{}
	server := NewServer(uc)
	uc.On("Airport", mock.Anything, "BOS").Return(&domain.Airport{Code: "BOS", City: "Boston"}, nil)
	uc.On("Timeline", mock.Anything, "abc12345").Return(&search.TimelineView{}, nil)

	resp, err := server.GetAirport(context.Background(), mustStruct(t, map[string]interface{}{"code": "BOS"}))
	require.NoError(t, err)
	assert.Equal(t, "Boston", resp.AsMap()["city"])

	resp, err = server.GetTimeline(context.Background(), mustStruct(t, map[string]interface{}{"id": "abc12345"}))
	require.NoError(t, err)
	assert.Contains(t, resp.AsMap(), "layout")
}

func TestServer_DecodeRejectsWrongTypes(t *testing.T) {
	server := NewServer(&MockSearchUseCase{})

	_, err := server.GetItinerary(context.Background(), mustStruct(t, map[string]interface{}{"id": "abc12345", "index": "first"}))
	assert.Equal(t, codes.InvalidArgument, status.Code(err))
}
