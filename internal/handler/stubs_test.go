package handler

import (
	"context"
	"errors"

	"github.com/google/uuid"

	"github.com/leadhive/superapp/api/internal/dto"
	"github.com/leadhive/superapp/api/internal/entity"
)

type stubLeadsRepo struct {
	bulkInsert func(ctx context.Context, leads []entity.Lead) (int, error)
	list       func(ctx context.Context, filter dto.ListFilter) ([]entity.Lead, error)
	listAll    func(ctx context.Context) ([]entity.Lead, error)
	getByIDs   func(ctx context.Context, ids []uuid.UUID) ([]entity.Lead, error)
	update     func(ctx context.Context, id uuid.UUID, req dto.UpdateLeadRequest) (*entity.Lead, error)
	deleteOne  func(ctx context.Context, id uuid.UUID) error
	deleteMany func(ctx context.Context, ids []uuid.UUID) (int, error)
}

func (s *stubLeadsRepo) BulkInsert(ctx context.Context, leads []entity.Lead) (int, error) {
	if s.bulkInsert != nil {
		return s.bulkInsert(ctx, leads)
	}
	return len(leads), nil
}

func (s *stubLeadsRepo) List(ctx context.Context, filter dto.ListFilter) ([]entity.Lead, error) {
	if s.list != nil {
		return s.list(ctx, filter)
	}
	return nil, nil
}

func (s *stubLeadsRepo) ListAll(ctx context.Context) ([]entity.Lead, error) {
	if s.listAll != nil {
		return s.listAll(ctx)
	}
	return nil, nil
}

func (s *stubLeadsRepo) GetByIDs(ctx context.Context, ids []uuid.UUID) ([]entity.Lead, error) {
	if s.getByIDs != nil {
		return s.getByIDs(ctx, ids)
	}
	return nil, nil
}

func (s *stubLeadsRepo) Update(ctx context.Context, id uuid.UUID, req dto.UpdateLeadRequest) (*entity.Lead, error) {
	if s.update != nil {
		return s.update(ctx, id, req)
	}
	return nil, errors.New("update not implemented")
}

func (s *stubLeadsRepo) Delete(ctx context.Context, id uuid.UUID) error {
	if s.deleteOne != nil {
		return s.deleteOne(ctx, id)
	}
	return nil
}

func (s *stubLeadsRepo) DeleteMany(ctx context.Context, ids []uuid.UUID) (int, error) {
	if s.deleteMany != nil {
		return s.deleteMany(ctx, ids)
	}
	return len(ids), nil
}

type stubSearchesRepo struct {
	insert        func(ctx context.Context, search *entity.Search) error
	insertResults func(ctx context.Context, searchID uuid.UUID, leadIDs []uuid.UUID) error
	list          func(ctx context.Context, limit int) ([]entity.Search, error)
}

func (s *stubSearchesRepo) Insert(ctx context.Context, search *entity.Search) error {
	if s.insert != nil {
		return s.insert(ctx, search)
	}
	return nil
}

func (s *stubSearchesRepo) InsertResults(ctx context.Context, searchID uuid.UUID, leadIDs []uuid.UUID) error {
	if s.insertResults != nil {
		return s.insertResults(ctx, searchID, leadIDs)
	}
	return nil
}

func (s *stubSearchesRepo) List(ctx context.Context, limit int) ([]entity.Search, error) {
	if s.list != nil {
		return s.list(ctx, limit)
	}
	return nil, nil
}

type stubSearcher struct {
	search func(ctx context.Context, query, location string, maxResults int) ([]any, error)
}

func (s *stubSearcher) Search(ctx context.Context, query, location string, maxResults int) ([]any, error) {
	if s.search != nil {
		return s.search(ctx, query, location, maxResults)
	}
	return nil, errors.New("search not implemented")
}
