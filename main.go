// gpmf-cli — GPMF telemetry extractor and exporter.
//
// Decodes GoPro GPMF binary telemetry into GPS/IMU data, exports it to GPX
// and CSV, reports track statistics, and persists sessions to SQLite.
package main

import (
	"context"
	"flag"
	"fmt"
	"os"
	"time"

	log "github.com/sirupsen/logrus"

	"github.com/gpmf-go/gpmf/batch"
	"github.com/gpmf-go/gpmf/csvexport"
	"github.com/gpmf-go/gpmf/gpmf"
	"github.com/gpmf-go/gpmf/gpx"
	"github.com/gpmf-go/gpmf/metrics"
	"github.com/gpmf-go/gpmf/stats"
	"github.com/gpmf-go/gpmf/store"
)

var commands = map[string]func([]string) int{
	"info":          cmdInfo,
	"gps-extract":   cmdGPSExtract,
	"gps-first":     cmdGPSFirst,
	"gyro-extract":  cmdGyroExtract,
	"accel-extract": cmdAccelExtract,
	"stats":         cmdStats,
	"sample":        cmdSample,
	"batch":         cmdBatch,
	"serve-metrics": cmdServeMetrics,
}

func usage() {
	fmt.Fprintf(os.Stderr, "Usage: gpmf-cli <command> [options] <file.gpmf>\n\n")
	fmt.Fprintf(os.Stderr, "Commands:\n")
	for _, name := range []string{"info", "gps-extract", "gps-first", "gyro-extract", "accel-extract", "stats", "sample", "batch", "serve-metrics"} {
		fmt.Fprintf(os.Stderr, "  %s\n", name)
	}
}

func run(args []string) int {
	if len(args) < 1 {
		usage()
		return 1
	}
	cmd, ok := commands[args[0]]
	if !ok {
		fmt.Fprintf(os.Stderr, "gpmf-cli: unknown command %q\n", args[0])
		usage()
		return 1
	}
	return cmd(args[1:])
}

func loadSession(path string, lenient bool) (gpmf.Session, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return gpmf.Session{}, fmt.Errorf("read %s: %w", path, err)
	}
	session, err := gpmf.ParseSession(data, gpmf.Options{Lenient: lenient})
	if err != nil {
		return gpmf.Session{}, fmt.Errorf("parse %s: %w", path, err)
	}
	metrics.SessionsProcessed.Inc()
	metrics.LastSessionGPSPoints.Set(float64(session.TotalGPSPoints()))
	metrics.LastSessionIMUPoints.Set(float64(session.TotalIMUPoints()))
	return session, nil
}

func cmdInfo(args []string) int {
	fs := flag.NewFlagSet("info", flag.ContinueOnError)
	lenient := fs.Bool("lenient", false, "tolerate truncated/unknown records")
	if err := fs.Parse(args); err != nil || fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: gpmf-cli info [-lenient] <file.gpmf>")
		return 1
	}

	session, err := loadSession(fs.Arg(0), *lenient)
	if err != nil {
		log.WithError(err).Error("failed to load session")
		return 1
	}
	gpmf.PrintSessionInfo(os.Stdout, session)
	return 0
}

func allGPS(session gpmf.Session) []gpmf.GPSRecord {
	var out []gpmf.GPSRecord
	for _, d := range session.Devices {
		out = append(out, d.GPS...)
	}
	return out
}

func allIMU(session gpmf.Session) []gpmf.IMURecord {
	var out []gpmf.IMURecord
	for _, d := range session.Devices {
		out = append(out, d.IMU...)
	}
	return out
}

func cmdGPSExtract(args []string) int {
	fs := flag.NewFlagSet("gps-extract", flag.ContinueOnError)
	output := fs.String("o", "", "output GPX file (default: stdout)")
	firstOnly := fs.Bool("f", false, "emit only the first sample per stream")
	csvOut := fs.String("csv", "", "also write a GPS+IMU overlay CSV to this path")
	lenient := fs.Bool("lenient", false, "tolerate truncated/unknown records")
	if err := fs.Parse(args); err != nil || fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: gpmf-cli gps-extract [-o output.gpx] [-f] [-csv overlay.csv] <file.gpmf>")
		return 1
	}

	session, err := loadSession(fs.Arg(0), *lenient)
	if err != nil {
		log.WithError(err).Error("failed to load session")
		return 1
	}

	seg := gpx.MakeSegment(allGPS(session), *firstOnly, false)
	w := os.Stdout
	if *output != "" {
		f, err := os.Create(*output)
		if err != nil {
			log.WithError(err).Error("failed to create output file")
			return 1
		}
		defer f.Close()
		w = f
	}
	if err := seg.Finalize(w, "gpmf-cli"); err != nil {
		log.WithError(err).Error("failed to write gpx")
		return 1
	}

	if *csvOut != "" {
		f, err := os.Create(*csvOut)
		if err != nil {
			log.WithError(err).Error("failed to create csv output file")
			return 1
		}
		defer f.Close()
		rows, err := csvexport.Write(f, allGPS(session), allIMU(session))
		if err != nil {
			log.WithError(err).Error("failed to write overlay csv")
			return 1
		}
		log.Infof("wrote %d overlay rows to %s", rows, *csvOut)
	}
	return 0
}

func cmdGPSFirst(args []string) int {
	fs := flag.NewFlagSet("gps-first", flag.ContinueOnError)
	lenient := fs.Bool("lenient", false, "tolerate truncated/unknown records")
	if err := fs.Parse(args); err != nil || fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: gpmf-cli gps-first <file.gpmf>")
		return 1
	}

	session, err := loadSession(fs.Arg(0), *lenient)
	if err != nil {
		log.WithError(err).Error("failed to load session")
		return 1
	}

	records := allGPS(session)
	if len(records) == 0 || records[0].NPoints == 0 {
		fmt.Fprintln(os.Stderr, "no GPS data found")
		return 1
	}
	r := records[0]
	fmt.Printf("lat=%.7f lon=%.7f alt=%.3f speed_2d=%.3f fix=%d\n", r.Latitude[0], r.Longitude[0], r.Altitude[0], r.Speed2D[0], r.Fix)
	return 0
}

func printIMU(records []gpmf.IMURecord, label string) int {
	if len(records) == 0 {
		fmt.Fprintf(os.Stderr, "no %s data found\n", label)
		return 1
	}
	for _, r := range records {
		for i := 0; i < r.NPoints; i++ {
			fmt.Printf("x=%.6f y=%.6f z=%.6f\n", r.X[i], r.Y[i], r.Z[i])
		}
	}
	return 0
}

func cmdGyroExtract(args []string) int {
	fs := flag.NewFlagSet("gyro-extract", flag.ContinueOnError)
	lenient := fs.Bool("lenient", false, "tolerate truncated/unknown records")
	if err := fs.Parse(args); err != nil || fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: gpmf-cli gyro-extract <file.gpmf>")
		return 1
	}
	session, err := loadSession(fs.Arg(0), *lenient)
	if err != nil {
		log.WithError(err).Error("failed to load session")
		return 1
	}
	return printIMU(allIMU(session), "gyro")
}

func cmdAccelExtract(args []string) int {
	fs := flag.NewFlagSet("accel-extract", flag.ContinueOnError)
	lenient := fs.Bool("lenient", false, "tolerate truncated/unknown records")
	if err := fs.Parse(args); err != nil || fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: gpmf-cli accel-extract <file.gpmf>")
		return 1
	}
	session, err := loadSession(fs.Arg(0), *lenient)
	if err != nil {
		log.WithError(err).Error("failed to load session")
		return 1
	}
	return printIMU(allIMU(session), "accel")
}

func cmdStats(args []string) int {
	fs := flag.NewFlagSet("stats", flag.ContinueOnError)
	lenient := fs.Bool("lenient", false, "tolerate truncated/unknown records")
	if err := fs.Parse(args); err != nil || fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: gpmf-cli stats <file.gpmf>")
		return 1
	}
	session, err := loadSession(fs.Arg(0), *lenient)
	if err != nil {
		log.WithError(err).Error("failed to load session")
		return 1
	}

	summary, err := stats.Summarize(allGPS(session))
	if err != nil {
		log.WithError(err).Error("failed to summarize track")
		return 1
	}
	fmt.Printf("Total points: %d\n", summary.TotalPoints)
	fmt.Printf("Latitude:  avg=%.6f min=%.6f max=%.6f stddev=%.6f\n", summary.Latitude.Mean, summary.Latitude.Min, summary.Latitude.Max, summary.Latitude.StdDev)
	fmt.Printf("Longitude: avg=%.6f min=%.6f max=%.6f stddev=%.6f\n", summary.Longitude.Mean, summary.Longitude.Min, summary.Longitude.Max, summary.Longitude.StdDev)
	fmt.Printf("Altitude:  avg=%.1fm min=%.1fm max=%.1fm\n", summary.Altitude.Mean, summary.Altitude.Min, summary.Altitude.Max)
	fmt.Printf("Speed 2D:  avg=%.2fm/s min=%.2fm/s max=%.2fm/s\n", summary.Speed2D.Mean, summary.Speed2D.Min, summary.Speed2D.Max)
	return 0
}

func cmdSample(args []string) int {
	fs := flag.NewFlagSet("sample", flag.ContinueOnError)
	output := fs.String("o", "", "output file (default: sample_<input>)")
	devices := fs.Int("devices", 1, "number of leading DEVC containers to keep")
	if err := fs.Parse(args); err != nil || fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: gpmf-cli sample [-o output.gpmf] [-devices N] <file.gpmf>")
		return 1
	}

	inputPath := fs.Arg(0)
	data, err := os.ReadFile(inputPath)
	if err != nil {
		log.WithError(err).Error("failed to read input")
		return 1
	}

	sample, n, err := gpmf.CreateSample(data, *devices)
	if err != nil {
		log.WithError(err).Error("failed to create sample")
		return 1
	}

	outPath := *output
	if outPath == "" {
		outPath = "sample_" + inputPath
	}
	if err := os.WriteFile(outPath, sample, 0o644); err != nil {
		log.WithError(err).Error("failed to write sample")
		return 1
	}
	log.Infof("wrote %s with %d device(s)", outPath, n)
	return 0
}

func cmdBatch(args []string) int {
	fs := flag.NewFlagSet("batch", flag.ContinueOnError)
	workers := fs.Int("workers", 0, "worker pool size (0 = 2*NumCPU)")
	dbPath := fs.String("store", "", "persist results to this SQLite database")
	lenient := fs.Bool("lenient", false, "tolerate truncated/unknown records")
	if err := fs.Parse(args); err != nil || fs.NArg() < 1 {
		fmt.Fprintln(os.Stderr, "Usage: gpmf-cli batch [-workers N] [-store path.db] <file.gpmf>...")
		return 1
	}

	var inputs []batch.Input
	for _, path := range fs.Args() {
		data, err := os.ReadFile(path)
		if err != nil {
			log.WithError(err).Warnf("skipping %s", path)
			continue
		}
		inputs = append(inputs, batch.Input{Name: path, Data: data})
	}

	results := batch.Run(context.Background(), inputs, gpmf.Options{Lenient: *lenient}, *workers)

	var db *store.Store
	if *dbPath != "" {
		s, err := store.Open(*dbPath)
		if err != nil {
			log.WithError(err).Error("failed to open store")
			return 1
		}
		defer s.Close()
		if err := s.Migrate(); err != nil {
			log.WithError(err).Error("failed to migrate store")
			return 1
		}
		db = s
	}

	exitCode := 0
	for _, r := range results {
		if !r.Ok() {
			log.WithError(r.Err).Errorf("failed to decode %s", r.Name)
			exitCode = 1
			continue
		}
		log.Infof("%s: %d GPS points, %d IMU points", r.Name, r.Session.TotalGPSPoints(), r.Session.TotalIMUPoints())
		if db != nil {
			if err := saveToStore(db, r); err != nil {
				log.WithError(err).Errorf("failed to persist %s", r.Name)
				exitCode = 1
			}
		}
	}
	return exitCode
}

func cmdServeMetrics(args []string) int {
	fs := flag.NewFlagSet("serve-metrics", flag.ContinueOnError)
	addr := fs.String("addr", ":9420", "listen address")
	if err := fs.Parse(args); err != nil {
		return 1
	}
	log.Infof("serving metrics on %s", *addr)
	if err := metrics.Serve(*addr); err != nil {
		log.WithError(err).Error("metrics server stopped")
		return 1
	}
	return 0
}

func saveToStore(db *store.Store, r batch.Result) error {
	return db.SaveSession(r.Session, r.Name, time.Now())
}

func main() {
	os.Exit(run(os.Args[1:]))
}
