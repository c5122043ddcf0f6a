// Package ports defines the interfaces between the bookkeeping core, its
// persistence adapters, and its external collaborators.
package ports

//go:generate mockgen -source=repositories.go -destination=mocks/repositories.go -package=mocks
//go:generate mockgen -source=collaborators.go -destination=mocks/collaborators.go -package=mocks
//go:generate mockgen -source=services.go -destination=mocks/services.go -package=mocks
