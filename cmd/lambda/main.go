package main

import (
	"context"
	"log"

	"github.com/GoSim-25-26J-441/issue-tracker/config"
	"github.com/GoSim-25-26J-441/issue-tracker/internal/bootstrap"
	"github.com/GoSim-25-26J-441/issue-tracker/internal/logger"
	"github.com/aws/aws-lambda-go/events"
	"github.com/aws/aws-lambda-go/lambda"
	ginadapter "github.com/awslabs/aws-lambda-go-api-proxy/gin"
	"go.uber.org/zap"
)

var ginLambda *ginadapter.GinLambda

func handleRequest(ctx context.Context, req events.APIGatewayProxyRequest) (events.APIGatewayProxyResponse, error) {
	return ginLambda.ProxyWithContext(ctx, req)
}

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load config: %v", err)
	}

	if err := logger.Init(cfg.App); err != nil {
		log.Fatalf("Failed to initialize logger: %v", err)
	}
	defer logger.Sync()

	app, err := bootstrap.NewApp(context.Background(), cfg, logger.GetLogger())
	if err != nil {
		logger.GetLogger().Fatal("failed to start", zap.Error(err))
	}
	defer app.Close()

	ginLambda = ginadapter.New(app.Router)
	lambda.Start(handleRequest)
}
