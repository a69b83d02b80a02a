package search_service_api

import (
	"context"
	"encoding/json"
	"errors"

	"github.com/Domenick1991/roundtrip/internal/service/search"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/structpb"
)

// Server implements SearchServiceServer on top of the search use case.
type Server struct {
	search search.SearchUseCase
}

var _ SearchServiceServer = (*Server)(nil)

func NewServer(search search.SearchUseCase) *Server {
	return &Server{search: search}
}

type idRequest struct {
	ID    string `json:"id"`
	Index int    `json:"index"`
	Code  string `json:"code"`
}

func (s *Server) Search(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var input search.SearchInput
	if err := decode(req, &input); err != nil {
		return nil, err
	}
	result, err := s.search.Search(ctx, input)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(result)
}

func (s *Server) GetSearch(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in idRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	result, err := s.search.Get(ctx, in.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(result)
}

func (s *Server) GetItinerary(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in idRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	it, err := s.search.Itinerary(ctx, in.ID, in.Index)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(it)
}

func (s *Server) GetTimeline(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in idRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	view, err := s.search.Timeline(ctx, in.ID)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(view)
}

func (s *Server) GetAirport(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	var in idRequest
	if err := decode(req, &in); err != nil {
		return nil, err
	}
	airport, err := s.search.Airport(ctx, in.Code)
	if err != nil {
		return nil, toStatus(err)
	}
	return encode(airport)
}

func decode(req *structpb.Struct, dst interface{}) error {
	data, err := req.MarshalJSON()
	if err != nil {
		return status.Errorf(codes.InvalidArgument, "encode request: %v", err)
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return status.Errorf(codes.InvalidArgument, "decode request: %v", err)
	}
	return nil
}

func encode(v interface{}) (*structpb.Struct, error) {
	data, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out := new(structpb.Struct)
	if err := out.UnmarshalJSON(data); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

func toStatus(err error) error {
	var qerr *search.QueryError
	switch {
	case errors.Is(err, search.ErrValidation):
		return status.Error(codes.InvalidArgument, err.Error())
	case errors.Is(err, search.ErrNotFound):
		return status.Error(codes.NotFound, err.Error())
	case errors.As(err, &qerr):
		return status.Error(codes.Unavailable, err.Error())
	case errors.Is(err, context.Canceled):
		return status.Error(codes.Canceled, err.Error())
	case errors.Is(err, context.DeadlineExceeded):
		return status.Error(codes.DeadlineExceeded, err.Error())
	default:
		return status.Error(codes.Internal, err.Error())
	}
}
