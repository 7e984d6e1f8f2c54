// Package main provides OpenAPI documentation for the Parley chat-server API
//
//	@title			Parley Chat Server API
//	@version		0.1
//	@description	API for listing and filtering chat servers (guilds).
//	@description	The listing endpoint supports optional filters by category, membership,
//	@description	result count and server id, plus a per-server member count annotation.
//	@description
//	@description	Authentication is optional for plain listing. Filters that depend on the
//	@description	caller identity require Bearer token authentication.
//
//	@contact.url	https://github.com/parleychat/parley-server
//
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT Bearer token authentication. Format: "Bearer {token}"
//
//	@tag.name	servers
//	@tag.description	Server discovery and filtering
//
//	@tag.name	categories
//	@tag.description	Server category listing
//
//	@tag.name	system
//	@tag.description	System health and version information
package main
