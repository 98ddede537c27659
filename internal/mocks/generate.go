// Package mocks provides mock implementations for testing the recruiter platform.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks for the
// repository and object-store interfaces.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	mockRepo := mocks.NewMockApplicationRepository(ctrl)
//	mockRepo.EXPECT().Create(gomock.Any(), gomock.Any()).Return(app, nil)
package mocks

// MockJobRepository: Create, GetByID, ListByRecruiter, Update, Delete
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=job_repository_mock.go github.com/navix1456/recruiter-platform/internal/core JobRepository

// MockApplicationRepository: Create, GetByID, ListByJob, Update, CountByJobs, ResumeKeysByJob
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=application_repository_mock.go github.com/navix1456/recruiter-platform/internal/core ApplicationRepository

// MockObjectStore: Upload, Remove, SignedURL
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=object_store_mock.go github.com/navix1456/recruiter-platform/internal/ports ObjectStore
