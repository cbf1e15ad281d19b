package main

import (
	"log"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	httpadp "verifyme-backend/internal/adapter/http"
	mysqlrepo "verifyme-backend/internal/adapter/repository/mysql"
	"verifyme-backend/internal/adapter/storage"
	"verifyme-backend/internal/config"
	"verifyme-backend/internal/infrastructure/cache"
	"verifyme-backend/internal/infrastructure/db"
	accountUC "verifyme-backend/internal/usecase/account"
	entryUC "verifyme-backend/internal/usecase/entry"
	exportUC "verifyme-backend/internal/usecase/export"
	schemaUC "verifyme-backend/internal/usecase/schema"
)

func main() {
	cfg := config.Load()
	if err := cfg.Validate(); err != nil {
		log.Fatal(err)
	}

	gdb, err := db.OpenGorm(cfg.MySQLDSN())
	if err != nil {
		log.Fatal(err)
	}
	if err := mysqlrepo.Migrate(gdb); err != nil {
		log.Fatal(err)
	}

	// redis only backs submission dedupe; run without it rather than
	// refusing to start when it is down.
	rdb, err := cache.OpenRedis(cfg.RedisAddr, cfg.RedisDB)
	if err != nil {
		log.Printf("redis unavailable, entry submissions will not be deduplicated: %v", err)
		rdb = nil
	}

	store, err := storage.NewDiskStore(cfg.StorageRoot, cfg.MediaURLPrefix)
	if err != nil {
		log.Fatal(err)
	}

	schemas := mysqlrepo.NewSchemaRepository(gdb)
	entries := mysqlrepo.NewEntryRepository(gdb)
	files := mysqlrepo.NewFieldFileRepository(gdb)
	users := mysqlrepo.NewUserRepository(gdb)
	orgs := mysqlrepo.NewOrganizationRepository(gdb)
	unit := mysqlrepo.NewGormUoW(gdb)

	tokens := accountUC.NewTokenIssuer(cfg.JWTSecret, cfg.JWTTTL)
	accounts := accountUC.NewUsecase(users, orgs, tokens)
	schemaSvc := schemaUC.NewUsecase(schemas, unit)
	entrySvc := entryUC.NewUsecase(entries, schemas, unit)
	submitter := entryUC.NewSubmitter(entrySvc, files, store)
	exportSvc := exportUC.NewUsecase(entrySvc)

	e := echo.New()
	e.HideBanner = true
	e.Validator = httpadp.NewValidator()
	e.Use(middleware.Logger(), middleware.Recover())

	httpadp.Register(e, httpadp.Handlers{
		Health:    httpadp.NewHandler(),
		Auth:      httpadp.NewAuthHandler(accounts),
		Schemas:   httpadp.NewSchemaHandler(schemaSvc),
		Entries:   httpadp.NewEntryHandler(entrySvc, submitter),
		Files:     httpadp.NewFieldFileHandler(submitter),
		Exports:   httpadp.NewExportHandler(exportSvc),
		Accounts:  accounts,
		Redis:     rdb,
		IdempTTL:  time.Duration(cfg.IdempTTLSecs) * time.Second,
		MediaRoot: cfg.StorageRoot,
	})

	addr := ":" + cfg.AppPort
	log.Printf("listening on %s", addr)
	if err := e.Start(addr); err != nil {
		log.Fatal(err)
	}
}
