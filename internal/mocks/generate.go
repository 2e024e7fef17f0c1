// Package mocks provides generated mock implementations for testing.
//
// This package uses go.uber.org/mock (gomock) to generate type-safe mocks
// for the storage and capability ports. The mocks are generated using
// go:generate directives and provide a fluent API for setting up test
// expectations.
//
// To regenerate mocks after interface changes, run:
//
//	go generate ./internal/mocks
//
// Usage in tests:
//
//	ctrl := gomock.NewController(t)
//	defer ctrl.Finish()
//	dir := mocks.NewMockModuleDirectory(ctrl)
//	dir.EXPECT().GetModule(gomock.Any(), "mod-1").Return(&mod, nil)
package mocks

// Generate mock for ModuleDirectory interface from internal/ports.
// This creates MockModuleDirectory with methods:
// GetModule, GetModuleByName, ListModules
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=module_directory_mock.go github.com/centralhub/hub-core/internal/ports ModuleDirectory

// Generate mock for UserRepository interface from internal/ports.
// This creates MockUserRepository with methods:
// Create, GetByID, GetByEmail, Update, List
//go:generate go run go.uber.org/mock/mockgen@v0.6.0 -package=mocks -destination=user_repository_mock.go github.com/centralhub/hub-core/internal/ports UserRepository
