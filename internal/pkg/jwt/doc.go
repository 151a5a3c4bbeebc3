// Package jwt issues and verifies the HS512 access tokens that identify a CRM
// user together with the role checked by authorization.
//
// The router's auth middleware stores verified Claims in the request context
// with SetAuth, and usecases read them back with GetAuth.
package jwt
