package main

import (
	"bytes"
	"context"
	"flag"
	"fmt"
	"io"
	"math"
	"math/rand/v2"
	"net/http"
	"os"
	"os/signal"
	"sync"
	"time"

	"github.com/getsentry/sentry-go"
	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"
	"github.com/go-gl/mathgl/mgl64"
	"github.com/oomph-ac/posesync/entity"
	"github.com/oomph-ac/posesync/game"
	"github.com/oomph-ac/posesync/reconcile"
	"github.com/oomph-ac/posesync/session"
	"github.com/oomph-ac/posesync/settings"
	"github.com/oomph-ac/posesync/simulation"
	"github.com/oomph-ac/posesync/world"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/sirupsen/logrus"
	_ "go.uber.org/automaxprocs"
	"golang.org/x/time/rate"
)

var (
	settingsPath = flag.String("settings", "posesync.toml", "settings file, created with defaults if missing")
	address      = flag.String("addr", "127.0.0.1:19133", "address the authoritative side listens on")
	objects      = flag.Int("objects", 8, "number of simulated objects")
	loss         = flag.Float64("loss", 0.1, "probability of a frame being dropped")
	jitter       = flag.Duration("jitter", 40*time.Millisecond, "maximum extra delay of a frame, which also reorders frames")
	duration     = flag.Duration("duration", 30*time.Second, "how long to run for")
	metricsAddr  = flag.String("metrics", "", "address to serve prometheus metrics on")
	debug        = flag.Bool("debug", false, "enable debug logging")
)

// The following program runs an authoritative simulation and a synchronized copy of it over a lossy
// local raknet link, logging how far the copy drifts from the original.
func main() {
	flag.Parse()

	log := logrus.New()
	log.Formatter = &logrus.TextFormatter{ForceColors: true}
	if *debug {
		log.SetLevel(logrus.DebugLevel)
	}

	if dsn := os.Getenv("SENTRY_DSN"); dsn != "" {
		if err := sentry.Init(sentry.ClientOptions{Dsn: dsn}); err != nil {
			log.Fatalf("failed to initialize sentry: %v", err)
		}
		defer sentry.Flush(time.Second * 2)
	}

	conf, err := loadSettings(*settingsPath)
	if err != nil {
		log.Fatal(err)
	}

	if os.Getenv("PPROF_ENABLED") != "" {
		viewer.SetConfiguration(viewer.WithTheme(viewer.ThemeWesteros), viewer.WithAddr("localhost:8080"))
		go statsview.New().Start()
	}
	if *metricsAddr != "" {
		go func() {
			if err := http.ListenAndServe(*metricsAddr, promhttp.Handler()); err != nil {
				log.Errorf("metrics server stopped: %v", err)
			}
		}()
	}

	ctx, cancel := signal.NotifyContext(context.Background(), os.Interrupt)
	defer cancel()
	ctx, cancelRun := context.WithTimeout(ctx, *duration)
	defer cancelRun()

	if err := run(ctx, log, conf); err != nil {
		log.Fatal(err)
	}
}

func loadSettings(path string) (settings.Settings, error) {
	if _, err := os.Stat(path); os.IsNotExist(err) {
		if err := settings.SaveDefault(path); err != nil {
			return settings.Settings{}, err
		}
	}
	return settings.Load(path)
}

func run(ctx context.Context, log *logrus.Logger, conf settings.Settings) error {
	listener, err := session.Listen(*address)
	if err != nil {
		return err
	}
	defer listener.Close()

	accepted := make(chan io.Writer, 1)
	go func() {
		conn, err := session.Accept(listener)
		if err != nil {
			log.Errorf("accept: %v", err)
			close(accepted)
			return
		}
		accepted <- &lossyWriter{log: log, conn: conn, loss: *loss, jitter: *jitter}
	}()

	clientConn, err := session.Dial(ctx, listener.Addr().String())
	if err != nil {
		return err
	}
	defer clientConn.Close()

	serverConn, ok := <-accepted
	if !ok {
		return fmt.Errorf("no session link was accepted")
	}

	start := time.Now()
	clock := reconcile.NewSystemClock(start)

	authority := newAuthority(*objects)
	publisher := session.NewPublisher(log, serverConn, clock)
	for i, t := range authority.transforms {
		publisher.Track(objectName(i), t)
	}

	w := world.New(log, 0, func(name string) *reconcile.Engine {
		return reconcile.New(log, name, clock, conf, entity.NewTransform(entity.PoseAt(mgl64.Vec3{})), simulation.NewBody(mgl64.Vec3{}, mgl64.QuatIdent()))
	})
	defer w.Close()

	receiver := session.NewReceiver(log, clientConn, clock, w)
	go func() {
		if err := receiver.Run(ctx); err != nil && ctx.Err() == nil {
			log.Errorf("receiver stopped: %v", err)
		}
	}()

	go authority.run(ctx, log, publisher, conf.SyncInterval)

	frame := time.NewTicker(time.Second / 60)
	defer frame.Stop()
	report := time.NewTicker(time.Second)
	defer report.Stop()

	last := time.Now()
	for {
		select {
		case <-ctx.Done():
			dispatched, malformed := receiver.Frames()
			log.Infof("done: %d frames dispatched, %d malformed", dispatched, malformed)
			return nil
		case now := <-frame.C:
			w.Tick(now.Sub(last).Seconds())
			last = now
		case <-report.C:
			authority.report(log, w)
		}
	}
}

func objectName(i int) string {
	return fmt.Sprintf("object-%d", i)
}

// authority owns the authoritative bodies. Each one spins while travelling on a circle.
type authority struct {
	mu         sync.Mutex
	bodies     []*simulation.Body
	transforms []*entity.Transform
	radius     []float64
	phase      []float64
	elapsed    float64
}

func newAuthority(n int) *authority {
	a := &authority{}
	for i := 0; i < n; i++ {
		body := simulation.NewBody(mgl64.Vec3{}, mgl64.QuatIdent())
		body.AngularVelocity = mgl64.Vec3{0, 1 + float64(i)*0.25, 0}
		a.bodies = append(a.bodies, body)
		a.transforms = append(a.transforms, entity.NewTransform(entity.PoseAt(mgl64.Vec3{})))
		a.radius = append(a.radius, 2+float64(i))
		a.phase = append(a.phase, float64(i)*math.Pi/float64(n))
	}
	return a
}

func (a *authority) step(dt float64) {
	if dt <= 0 {
		return
	}
	a.mu.Lock()
	defer a.mu.Unlock()
	a.elapsed += dt
	for i, body := range a.bodies {
		angle := a.elapsed + a.phase[i]
		target := mgl64.Vec3{math.Cos(angle) * a.radius[i], math.Sin(angle * 2), math.Sin(angle) * a.radius[i]}
		body.LinearVelocity = target.Sub(body.Position).Mul(1 / dt)
		body.Step(dt)
		a.transforms[i].Write(entity.NewPose(body.Position, body.Rotation))
	}
}

func (a *authority) run(ctx context.Context, log *logrus.Logger, p *session.Publisher, interval float64) {
	limiter := rate.NewLimiter(rate.Every(time.Duration(interval*float64(time.Second))), 1)
	last := time.Now()
	for {
		if err := limiter.Wait(ctx); err != nil {
			return
		}
		now := time.Now()
		a.step(now.Sub(last).Seconds())
		last = now
		a.mu.Lock()
		err := p.Publish()
		a.mu.Unlock()
		if err != nil {
			log.Errorf("publish: %v", err)
			return
		}
	}
}

func (a *authority) report(log *logrus.Logger, w *world.World) {
	a.mu.Lock()
	defer a.mu.Unlock()
	drift := make([]float64, 0, len(a.transforms))
	for i, t := range a.transforms {
		e, ok := w.Engine(objectName(i))
		if !ok {
			continue
		}
		drift = append(drift, e.Pose().Position.Sub(t.Read().Position).Len())
	}
	log.WithField("objects", w.Len()).Infof("drift from authority: %v", game.Summarize(drift))
}

// lossyWriter drops and delays writes to conn to imitate a bad network.
type lossyWriter struct {
	log    *logrus.Logger
	conn   io.Writer
	loss   float64
	jitter time.Duration
}

func (l *lossyWriter) Write(b []byte) (int, error) {
	if rand.Float64() < l.loss {
		return len(b), nil
	}
	pk := bytes.Clone(b)
	time.AfterFunc(time.Duration(rand.Int64N(int64(l.jitter)+1)), func() {
		if _, err := l.conn.Write(pk); err != nil {
			l.log.Debugf("lossy write: %v", err)
		}
	})
	return len(b), nil
}
