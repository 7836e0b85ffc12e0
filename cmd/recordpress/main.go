package main

import (
	"bytes"
	"os"
	"strings"

	"go.uber.org/zap"

	"github.com/iamNilotpal/recordpress/config"
	"github.com/iamNilotpal/recordpress/internal/core/domain"
	"github.com/iamNilotpal/recordpress/internal/core/services/record"
	"github.com/iamNilotpal/recordpress/pkg/errors"
	"github.com/iamNilotpal/recordpress/pkg/logger"
)

func main() {
	log := logger.New("recordpress")
	defer log.Sync()

	cfg := config.DefaultConfig()
	log.Infow("starting record transform demo", "max_record_size", cfg.Record.MaxRecordSize)

	sender, err := record.New(&record.Options{
		Algorithm: domain.AlgorithmDeflate,
		Direction: domain.DirectionCompress,
		Level:     cfg.Record.Level,
		Logger:    log,
	})
	if err != nil {
		exitOnError(log, "create compress handle", err)
	}
	defer sender.Close()

	receiver, err := record.New(&record.Options{
		Algorithm: domain.AlgorithmDeflate,
		Direction: domain.DirectionDecompress,
	})
	if err != nil {
		exitOnError(log, "create decompress handle", err)
	}
	defer receiver.Close()

	payload := []byte(strings.Repeat("record layer payload transform ", 64))

	compressed, err := sender.Compress(payload, cfg.Record.MaxRecordSize)
	if err != nil {
		exitOnError(log, "compress record", err)
	}
	log.Infow("compressed record", "plain", len(payload), "compressed", len(compressed))

	plain, err := receiver.Decompress(compressed, cfg.Record.MaxRecordSize)
	if err != nil {
		exitOnError(log, "decompress record", err)
	}
	log.Infow("decompressed record", "size", len(plain), "match", bytes.Equal(plain, payload))
}

func exitOnError(log *zap.SugaredLogger, op string, err error) {
	if verr := errors.AsValidationError(err); verr != nil {
		log.Infow(op+" error", "field", verr.Field, "value", verr.Value, "error", verr.Err)
	} else {
		log.Infow(op+" error", "error", err)
	}
	os.Exit(1)
}
