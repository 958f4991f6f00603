package main

import (
	"context"
	"fmt"
	"os"
	"runtime"
	"strconv"
	"time"

	"github.com/aws/aws-sdk-go/aws/session"
	"github.com/aws/aws-sdk-go/service/dynamodb"
	"github.com/aws/aws-sdk-go/service/s3"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/panjf2000/ants/v2"
	"github.com/rs/zerolog/log"

	"github.com/ekaud/my-audio-summaries/application/ports/inbound"
	"github.com/ekaud/my-audio-summaries/application/ports/outbound"
	"github.com/ekaud/my-audio-summaries/application/services"
	"github.com/ekaud/my-audio-summaries/config"
	"github.com/ekaud/my-audio-summaries/infrastructure/adapters"
	"github.com/ekaud/my-audio-summaries/infrastructure/gin_interface/controllers"
	"github.com/ekaud/my-audio-summaries/infrastructure/processors"
	"github.com/ekaud/my-audio-summaries/middleware"
)

func main() {
	// Optional .env for local runs; real deployments set the environment.
	_ = godotenv.Load()

	generatorConfig, err := config.GetGeneratorConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get generator config")
	}

	ttsConfig, err := config.GetTtsConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get tts config")
	}

	outputConfig, err := config.GetOutputConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get output config")
	}

	logger := adapters.NewZerologWrapper()

	poolSize := runtime.NumCPU() * 4
	if raw := os.Getenv("POOL_SIZE"); raw != "" {
		poolSize, err = strconv.Atoi(raw)
		if err != nil || poolSize < 1 {
			log.Fatal().Err(err).Msg("Failed to parse pool size")
		}
	}

	panicHandler := func(p interface{}) {
		logger.Error(fmt.Errorf("%v", p), "Panic in worker pool")
	}
	workerPool, err := ants.NewPool(poolSize, ants.WithPanicHandler(panicHandler))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to create worker pool")
	}
	defer workerPool.Release()

	contentFetcher := adapters.NewContentFetcher(logger)
	generator := adapters.NewDialogueGenerator(generatorConfig, logger)
	synthesizer := adapters.NewSpeechSynthesizer(contentFetcher, ttsConfig, logger)
	assembler := services.NewDialogueAssembler(logger, synthesizer, workerPool)
	artifacts := adapters.NewArtifactWriter(outputConfig, logger)

	var mirror outbound.ArtifactMirrorPort
	var sess *session.Session
	if os.Getenv("BUCKET_NAME") != "" {
		s3Config, err := config.GetS3Config()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get s3 config")
		}
		sess = session.Must(session.NewSessionWithOptions(session.Options{
			SharedConfigState: session.SharedConfigEnable,
		}))
		mirror = adapters.NewS3ArtifactMirror(s3.New(sess), s3Config, logger)
	}

	pipeline := services.NewNarrationPipeline(logger, generator, assembler, artifacts, mirror)

	removed, err := artifacts.Cleanup(outputConfig.AudioDir, time.Duration(outputConfig.RetentionHours)*time.Hour)
	if err != nil {
		logger.Error(err, "retention sweep failed")
	} else if removed > 0 {
		logger.InfoWithFields("retention sweep complete", map[string]interface{}{"removed": removed})
	}

	mode := "run"
	if len(os.Args) > 1 {
		mode = os.Args[1]
	}

	switch mode {
	case "serve":
		runServer(logger, pipeline)
	case "run":
		runBatch(logger, workerPool, contentFetcher, pipeline, sess)
	default:
		log.Fatal().Str("mode", mode).Msg("Unknown mode, expected run or serve")
	}
}

func runBatch(logger outbound.LoggerPort, workerPool *ants.Pool, contentFetcher adapters.ContentFetcher,
	pipeline inbound.NarrationPipelinePort, sess *session.Session) {
	googleConfig, err := config.GetGoogleConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to get google config")
	}

	var seenCache outbound.SeenCachePort
	if os.Getenv("DYNAMO_TABLE_NAME") != "" {
		dynamoConfig, err := config.GetDynamoConfig()
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to get dynamo config")
		}
		if sess == nil {
			sess = session.Must(session.NewSessionWithOptions(session.Options{
				SharedConfigState: session.SharedConfigEnable,
			}))
		}
		seenCache = adapters.NewDynamoSeenCache(logger, dynamodb.New(sess), dynamoConfig)
	} else {
		seenCache = adapters.NewMemorySeenCache()
	}

	authorizer := adapters.NewGoogleAuthorizer(logger, googleConfig)
	gmail := adapters.NewGmailFetcher(logger, contentFetcher, authorizer, workerPool, seenCache)

	registry := services.NewProcessorRegistry(logger)
	registry.Register([]string{"application/pdf"}, processors.NewPDFProcessor(logger))
	registry.Register([]string{"text/plain"}, processors.NewTextProcessor())

	batch := services.NewDocumentBatch(logger, workerPool, []outbound.DocumentSourcePort{gmail}, registry, pipeline)

	lookbackHours := 72
	if raw := os.Getenv("LOOKBACK_HOURS"); raw != "" {
		lookbackHours, err = strconv.Atoi(raw)
		if err != nil || lookbackHours < 1 {
			log.Fatal().Err(err).Msg("Failed to parse lookback hours")
		}
	}
	since := time.Now().Add(-time.Duration(lookbackHours) * time.Hour)

	ctx := context.Background()
	artifactsCh, errCh := batch.Run(ctx, since)

	produced := 0
	for artifactsCh != nil || errCh != nil {
		select {
		case artifact, ok := <-artifactsCh:
			if !ok {
				artifactsCh = nil
				continue
			}
			produced++
			logger.InfoWithFields("narration complete", map[string]interface{}{
				"title": artifact.Title,
				"audio": artifact.AudioPath,
			})
		case err, ok := <-errCh:
			if !ok {
				errCh = nil
				continue
			}
			// Per-document failures are isolated; keep draining.
			logger.Error(err, "document failed")
		}
	}

	logger.InfoWithFields("batch complete", map[string]interface{}{"narrations": produced})
}

func runServer(logger outbound.LoggerPort, pipeline inbound.NarrationPipelinePort) {
	router := gin.Default()
	if err := router.SetTrustedProxies(nil); err != nil {
		log.Fatal().Err(err).Msg("Failed to set trusted proxies!")
	}

	if jwksUrl := os.Getenv("JWKS_URL"); jwksUrl != "" {
		authHandler, err := middleware.NewAuthHandler(jwksUrl)
		if err != nil {
			log.Fatal().Err(err).Msg("Failed to create auth handler!")
		}
		router.Use(authHandler.AuthMiddleware())
	} else {
		logger.Warn("JWKS_URL not set, serving without authentication")
	}

	controller := controllers.NewNarrationController(logger, pipeline)
	controller.RegisterRoutes(router)

	if err := router.Run(":8080"); err != nil {
		log.Fatal().Err(err).Msg("Failed to start server!")
	}
}
