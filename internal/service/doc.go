// Package service contains the application use cases that sit between the
// HTTP layer and the quiz engine.
//
// CatalogService groups stored banks for browsing. SessionService owns the
// live study sessions: it creates an orchestrator per session, serializes
// commands against it and retires sessions that have gone idle.
package service
