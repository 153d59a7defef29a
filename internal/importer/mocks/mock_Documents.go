// Package mocks provides test doubles for the importer's collaborators.
package mocks

import (
	"context"
	"time"

	model "github.com/sells-group/fuelprices-cli/internal/model"
	mock "github.com/stretchr/testify/mock"
)

// MockDocuments is a mock type for the Documents interface.
type MockDocuments struct {
	mock.Mock
}

// Get provides a mock function with given fields: ctx, kind, date, force
func (_m *MockDocuments) Get(ctx context.Context, kind model.ReportKind, date time.Time, force bool) ([]byte, error) {
	ret := _m.Called(ctx, kind, date, force)

	if len(ret) == 0 {
		panic("no return value specified for Get")
	}

	var r0 []byte
	var r1 error
	if rf, ok := ret.Get(0).(func(context.Context, model.ReportKind, time.Time, bool) ([]byte, error)); ok {
		return rf(ctx, kind, date, force)
	}
	if rf, ok := ret.Get(0).(func(context.Context, model.ReportKind, time.Time, bool) []byte); ok {
		r0 = rf(ctx, kind, date, force)
	} else {
		if ret.Get(0) != nil {
			r0 = ret.Get(0).([]byte)
		}
	}

	if rf, ok := ret.Get(1).(func(context.Context, model.ReportKind, time.Time, bool) error); ok {
		r1 = rf(ctx, kind, date, force)
	} else {
		r1 = ret.Error(1)
	}

	return r0, r1
}

// NewMockDocuments creates a new instance of MockDocuments.
func NewMockDocuments(t interface {
	mock.TestingT
	Cleanup(func())
}) *MockDocuments {
	m := &MockDocuments{}
	m.Mock.Test(t)

	t.Cleanup(func() { m.AssertExpectations(t) })

	return m
}
