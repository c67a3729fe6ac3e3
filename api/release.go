package api

// Service identification metadata reported by the ping endpoint.
const (
	Name        = "mg-rest-adjacency"
	Description = "REST service for querying genomic adjacency (chromosomal interaction) datasets"
	Version     = "0.3.0"
	Author      = "Multiscale Genomics"
	License     = "Apache 2.0"
)
