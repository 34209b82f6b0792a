package learning

import "os"

import "github.com/pkg/errors"
import "github.com/spf13/afero"
import "go.uber.org/zap"
import "go.uber.org/zap/zapcore"

// NewLogger returns a JSON logger with RFC3339 timestamps and caller
// information. Errors go to stderr, everything else to stdout. A non-empty
// filename additionally appends all entries to that file on fs.
func NewLogger(fs afero.Fs, filename string) (*zap.Logger, error) {
	isErrorLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl >= zapcore.ErrorLevel
	})
	isInfoLevel := zap.LevelEnablerFunc(func(lvl zapcore.Level) bool {
		return lvl < zapcore.ErrorLevel && lvl >= zapcore.InfoLevel
	})

	config := zap.NewProductionEncoderConfig()
	config.EncodeTime = zapcore.RFC3339TimeEncoder
	encoder := zapcore.NewJSONEncoder(config)

	cores := []zapcore.Core{
		zapcore.NewCore(encoder, zapcore.Lock(os.Stderr), isErrorLevel),
		zapcore.NewCore(encoder, zapcore.Lock(os.Stdout), isInfoLevel),
	}
	if filename != "" {
		outfile, err := fs.OpenFile(filename, os.O_WRONLY|os.O_CREATE|os.O_APPEND, 0666)
		if err != nil {
			return nil, errors.Wrapf(err, "open log %s", filename)
		}
		cores = append(cores, zapcore.NewCore(encoder, zapcore.AddSync(outfile), zapcore.InfoLevel))
	}
	return zap.New(zapcore.NewTee(cores...), zap.AddCaller()), nil
}
