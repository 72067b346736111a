// Command identity-stub serves the stub identity service standalone, for
// developing against the sign-in flow without production credentials.
package main

import (
	"os"

	"go.uber.org/zap"

	"github.com/MeiJie12/siwesession/identitytest"
)

func main() {
	logger, err := zap.NewDevelopment()
	if err != nil {
		panic(err)
	}
	defer logger.Sync()

	addr := ":9100"
	if port := os.Getenv("PORT"); port != "" {
		addr = ":" + port
	}

	logger.Info("identity stub listening", zap.String("addr", addr))

	if err := identitytest.NewServer().Router().Run(addr); err != nil {
		logger.Fatal("server stopped", zap.Error(err))
	}
}
