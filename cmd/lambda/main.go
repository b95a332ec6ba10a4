package main

import (
	"context"

	"bridebuddy.app/configs/configsapp"
	"bridebuddy.app/configs/configslog"
	"bridebuddy.app/pkg/lambdaproxy"

	"github.com/aws/aws-lambda-go/lambda"
	"go.uber.org/zap"
)

func main() {
	cfg := configsapp.MustLoad()
	defer configslog.SyncLogger()

	// API Gateway puts the caller address in X-Forwarded-For.
	app, err := configsapp.Build(context.Background(), cfg, "X-Forwarded-For")
	if err != nil {
		configslog.Log.Fatal("Application could not be built", zap.Error(err))
	}
	defer app.Close()

	lambda.Start(lambdaproxy.New(app.Fiber, cfg.RequestTimeout))
}
