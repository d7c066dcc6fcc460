//go:generate mockgen -source=../query_repository.go   -destination=./mock_query_repository.go   -package=mocks
//go:generate mockgen -source=../query_cache.go        -destination=./mock_query_cache.go        -package=mocks
//go:generate mockgen -source=../query_validator.go    -destination=./mock_query_validator.go    -package=mocks
//go:generate mockgen -source=../stream.go             -destination=./mock_stream.go             -package=mocks
//go:generate mockgen -source=../query_service.go      -destination=./mock_query_service.go      -package=mocks

package mocks
