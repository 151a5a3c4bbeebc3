package main

import (
	"context"

	"github.com/shandysiswandi/gocrm/internal/app"
)

// @title           GoCRM API
// @version         1.0
// @description     GoCRM manages accounts, their activities and the state lookup, and publishes the account field rules clients validate against.
// @license.name    MIT
// @license.url     https://mit-license.org/
// @server          http://localhost:8080
// @securityDefinitions.apikey  BearerAuth
// @in header
// @name Authorization
// @description Type "Bearer" followed by a space and JWT.
func main() {
	application := app.New()
	<-application.Start()

	ctx, cancel := context.WithTimeout(context.Background(), application.ShutdownTimeout())
	defer cancel()
	application.Stop(ctx)
}
