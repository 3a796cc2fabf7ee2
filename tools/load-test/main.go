package main

import (
	"context"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/rs/zerolog/log"
	"presensi.client/internal/api"
	"presensi.client/internal/config"
	"presensi.client/internal/core/model"
	"presensi.client/internal/platform"
	"presensi.client/internal/ports/storage"
	"presensi.client/internal/session"
	"presensi.client/pkg/logger"
)

func main() {
	cfg, err := config.LoadConfig()
	if err != nil {
		log.Fatal().Err(err).Msg("Could not load configuration")
	}
	logger.Setup(cfg.IsLocalDev)

	numEmployees := 200
	concurrency := 20 // Number of concurrent employees to avoid local port exhaustion
	runID := time.Now().Unix()

	fmt.Printf("Starting load test: %d employees against %s with concurrency %d\n", numEmployees, cfg.APIURL, concurrency)

	var wg sync.WaitGroup
	sem := make(chan struct{}, concurrency)

	var successCount int64
	var failCount int64

	startTime := time.Now()

	for i := 0; i < numEmployees; i++ {
		wg.Add(1)
		sem <- struct{}{}

		email := fmt.Sprintf("load-%d-%d@presensi.local", runID, i)

		go func(email string) {
			defer wg.Done()
			defer func() { <-sem }()

			ok, failed := runEmployee(context.Background(), cfg.APIURL, email)
			atomic.AddInt64(&successCount, ok)
			atomic.AddInt64(&failCount, failed)
		}(email)
	}

	wg.Wait()
	duration := time.Since(startTime)
	total := successCount + failCount

	fmt.Println("\n--- Load Test Results ---")
	fmt.Printf("Total Duration: %v\n", duration)
	fmt.Printf("Total Requests: %d\n", total)
	fmt.Printf("Successful:     %d\n", successCount)
	fmt.Printf("Failed:         %d\n", failCount)
	fmt.Printf("Requests/Sec:   %.2f\n", float64(total)/duration.Seconds())
}

// runEmployee registers one account and walks it through a working day. It
// stops at the first failed call and returns the request tallies.
func runEmployee(ctx context.Context, baseURL, email string) (ok, failed int64) {
	sess := session.NewStore(ctx, storage.NewMemoryStorage(), platform.Interactive)
	client := api.NewClient(baseURL, sess)
	auth := api.NewAuthAPI(client)
	presensi := api.NewPresensiAPI(client)

	const password = "loadtest"
	loc := &model.Location{Latitude: -6.2, Longitude: 106.8}
	var presensiID string

	steps := []func() error{
		func() error {
			_, err := auth.Register(ctx, model.RegisterRequest{Email: email, Password: password, Nama: email})
			return err
		},
		func() error {
			resp, err := auth.Login(ctx, model.LoginRequest{Email: email, Password: password})
			if err != nil {
				return err
			}
			return sess.Login(ctx, resp.Data.Token, resp.Data.User)
		},
		func() error {
			resp, err := presensi.Create(ctx, model.CreatePresensiRequest{})
			if err != nil {
				return err
			}
			presensiID = resp.Data.ID
			return nil
		},
		func() error {
			_, err := presensi.CheckIn(ctx, presensiID, loc)
			return err
		},
		func() error {
			_, err := presensi.CheckOut(ctx, presensiID, loc)
			return err
		},
	}

	for _, step := range steps {
		if err := step(); err != nil {
			log.Debug().Err(err).Str("email", email).Msg("Load test step failed")
			return ok, failed + 1
		}
		ok++
	}
	return ok, failed
}
