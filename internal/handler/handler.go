// Package handler is the HTTP layer between the router and the services.
//
// Every endpoint is a typed function wrapped by Handle or HandleFile, which
// bind the request, log, trace and write the response. Handlers turn
// service errors into errs.HTTPError values and never touch the store.
package handler
