package api

import (
	"context"

	"gourmetmap/pkg/gourmet"
)

type mockStore struct {
	Values         [][]interface{}
	ReadErr        error
	OverwriteErr   error
	AppendErr      error
	OverwriteCalls [][][]interface{}
	AppendCalls    [][]interface{}
}

func (m *mockStore) ReadAll(ctx context.Context) ([][]interface{}, error) {
	if m.ReadErr != nil {
		return nil, m.ReadErr
	}
	return m.Values, nil
}

func (m *mockStore) Overwrite(ctx context.Context, values [][]interface{}) error {
	if m.OverwriteErr != nil {
		return m.OverwriteErr
	}
	m.OverwriteCalls = append(m.OverwriteCalls, values)
	m.Values = values
	return nil
}

func (m *mockStore) AppendRow(ctx context.Context, row []interface{}) error {
	if m.AppendErr != nil {
		return m.AppendErr
	}
	m.AppendCalls = append(m.AppendCalls, row)
	m.Values = append(m.Values, row)
	return nil
}

type mockGeocoder struct {
	ResolveFunc func(ctx context.Context, address string) (*gourmet.Location, error)
	Calls       []string
}

func (m *mockGeocoder) Resolve(ctx context.Context, address string) (*gourmet.Location, error) {
	m.Calls = append(m.Calls, address)
	if m.ResolveFunc == nil {
		return nil, gourmet.ErrGeocodeNotFound
	}
	return m.ResolveFunc(ctx, address)
}
