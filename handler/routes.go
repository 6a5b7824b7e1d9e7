package handler

import (
	"net/http"

	"github.com/lambda-feedback/harbor-shim/internal/server"
)

func NewRootRoute(handler *CommandHandler) server.HttpHandlerResult {
	return server.AsHttpHandler("/", handler)
}

func NewInvokeRoute(handler *CommandHandler) server.HttpHandlerResult {
	return server.AsHttpHandler("/invoke", handler)
}

func NewHealthRoute() server.HttpHandlerResult {
	return server.AsHttpHandler("/health", http.HandlerFunc(HealthHandler))
}
