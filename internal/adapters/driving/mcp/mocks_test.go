package mcp

import (
	"context"
	"time"

	"github.com/custodia-labs/kotae/internal/core/domain"
)

type mockSearchService struct {
	result domain.QueryResult
	err    error
	query  string
}

func (m *mockSearchService) Search(_ context.Context, query string) (domain.QueryResult, error) {
	m.query = query
	return m.result, m.err
}

type mockDatasetService struct {
	dataset *domain.Dataset
	status  domain.Status
}

func (m *mockDatasetService) Load(_ context.Context) (*domain.Dataset, error) {
	return m.dataset, nil
}

func (m *mockDatasetService) Current() *domain.Dataset {
	return m.dataset
}

func (m *mockDatasetService) Status() domain.Status {
	return m.status
}

func sampleDataset() *domain.Dataset {
	return &domain.Dataset{
		Version:  3,
		Source:   "faq.csv",
		LoadedAt: time.Date(2024, 4, 1, 9, 0, 0, 0, time.UTC),
		Records: []domain.Record{
			{ID: "rec-1", Question: "体重の目安は?", Answer: "標準体重を参考に\n無理のない範囲で", Category: "health"},
			{ID: "rec-2", Question: "カロリー計算方法", Answer: "TDEEを使います", Category: "diet"},
		},
	}
}
