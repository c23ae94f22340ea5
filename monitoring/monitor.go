// Package monitoring turns a running client runtime into a small HTTP
// server for external inspection: pausing and continuing the event loop,
// listing registered entities, and watching in-flight parameter calls.
package monitoring

import (
	"bytes"
	"encoding/json"
	"fmt"
	"log"
	"net"
	"net/http"
	"os"
	"runtime/pprof"
	"strconv"
	"time"

	"github.com/google/pprof/profile"
	"github.com/gorilla/mux"
	"github.com/pkg/browser"
	"github.com/shirou/gopsutil/process"
	"github.com/syifan/goseth"

	"github.com/j-rivero/rclgo/core"
	"github.com/j-rivero/rclgo/executor"
	"github.com/j-rivero/rclgo/params"
)

// Monitor serves the state of a client runtime over HTTP.
type Monitor struct {
	exec     *executor.SingleThreaded
	entities []core.Named
	clients  []*params.AsyncClient

	portNumber    int
	openDashboard bool
}

// NewMonitor creates a new Monitor.
func NewMonitor() *Monitor {
	return &Monitor{}
}

// WithConfig applies the monitor configuration.
func (m *Monitor) WithConfig(cfg Config) *Monitor {
	m.portNumber = cfg.Port
	m.openDashboard = cfg.OpenDashboard

	return m
}

// WithPortNumber sets the port number of the monitor.
func (m *Monitor) WithPortNumber(portNumber int) *Monitor {
	if portNumber != 0 && portNumber < 1000 {
		fmt.Fprintf(os.Stderr,
			"Port number %d is assigned to the monitoring server, "+
				"which is not allowed. Using a random port instead.\n",
			portNumber)
		portNumber = 0
	}

	m.portNumber = portNumber

	return m
}

// RegisterExecutor registers the event loop under monitoring.
func (m *Monitor) RegisterExecutor(e *executor.SingleThreaded) {
	m.exec = e
	m.entities = append(m.entities, e)
}

// RegisterEntity registers a named entity for inspection.
func (m *Monitor) RegisterEntity(entity core.Named) {
	m.entities = append(m.entities, entity)
}

// RegisterClient registers a parameter client whose in-flight calls are
// reported.
func (m *Monitor) RegisterClient(c *params.AsyncClient) {
	m.clients = append(m.clients, c)
	m.entities = append(m.entities, c)
}

// StartServer starts the monitor as a web server, on a random port unless
// one was configured.
func (m *Monitor) StartServer() {
	r := mux.NewRouter()
	r.HandleFunc("/api/pause", m.pauseExecutor)
	r.HandleFunc("/api/continue", m.continueExecutor)
	r.HandleFunc("/api/waitables", m.listWaitables)
	r.HandleFunc("/api/entities", m.listEntities)
	r.HandleFunc("/api/entity/{name}", m.entityDetails)
	r.HandleFunc("/api/inflight", m.listInFlight)
	r.HandleFunc("/api/resource", m.listResources)
	r.HandleFunc("/api/profile", m.collectProfile)

	actualPort := ":0"
	if m.portNumber > 0 {
		actualPort = ":" + strconv.Itoa(m.portNumber)
	}

	listener, err := net.Listen("tcp", actualPort)
	dieOnErr(err)

	url := fmt.Sprintf("http://localhost:%d",
		listener.Addr().(*net.TCPAddr).Port)
	fmt.Fprintf(os.Stderr, "Monitoring runtime with %s\n", url)

	go func() {
		err = http.Serve(listener, r)
		dieOnErr(err)
	}()

	if m.openDashboard {
		if err := browser.OpenURL(url); err != nil {
			log.Printf("could not open dashboard: %v", err)
		}
	}
}

func (m *Monitor) pauseExecutor(w http.ResponseWriter, _ *http.Request) {
	m.exec.Pause()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) continueExecutor(w http.ResponseWriter, _ *http.Request) {
	m.exec.Continue()
	_, err := w.Write(nil)
	dieOnErr(err)
}

func (m *Monitor) listWaitables(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprintf(w, "{\"count\":%d}", m.exec.NumWaitables())
}

func (m *Monitor) listEntities(w http.ResponseWriter, _ *http.Request) {
	fmt.Fprint(w, "[")
	for i, entity := range m.entities {
		if i > 0 {
			fmt.Fprint(w, ",")
		}

		fmt.Fprintf(w, "%q", entity.Name())
	}
	fmt.Fprint(w, "]")
}

func (m *Monitor) entityDetails(w http.ResponseWriter, r *http.Request) {
	name := mux.Vars(r)["name"]

	entity := m.findEntityOr404(w, name)
	if entity == nil {
		return
	}

	serializer := goseth.NewSerializer()
	serializer.SetRoot(entity)
	serializer.SetMaxDepth(1)
	err := serializer.Serialize(w)

	dieOnErr(err)
}

func (m *Monitor) findEntityOr404(
	w http.ResponseWriter,
	name string,
) core.Named {
	for _, entity := range m.entities {
		if entity.Name() == name {
			return entity
		}
	}

	w.WriteHeader(http.StatusNotFound)
	_, err := w.Write([]byte("Entity not found"))
	dieOnErr(err)

	return nil
}

type inFlightRsp struct {
	Client   string `json:"client"`
	InFlight int    `json:"in_flight"`
}

func (m *Monitor) listInFlight(w http.ResponseWriter, _ *http.Request) {
	rsp := make([]inFlightRsp, 0, len(m.clients))
	for _, c := range m.clients {
		rsp = append(rsp, inFlightRsp{
			Client:   c.Name(),
			InFlight: c.InFlight(),
		})
	}

	data, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(data)
	dieOnErr(err)
}

type resourceRsp struct {
	CPUPercent float64 `json:"cpu_percent"`
	MemorySize uint64  `json:"memory_size"`
}

func (m *Monitor) listResources(w http.ResponseWriter, _ *http.Request) {
	pid := os.Getpid()
	proc, err := process.NewProcess(int32(pid))
	dieOnErr(err)

	cpuPercent, err := proc.CPUPercent()
	dieOnErr(err)

	memoryInfo, err := proc.MemoryInfo()
	dieOnErr(err)

	rsp := resourceRsp{
		CPUPercent: cpuPercent,
		MemorySize: memoryInfo.RSS,
	}

	data, err := json.Marshal(rsp)
	dieOnErr(err)

	_, err = w.Write(data)
	dieOnErr(err)
}

func (m *Monitor) collectProfile(w http.ResponseWriter, _ *http.Request) {
	buf := bytes.NewBuffer(nil)

	err := pprof.StartCPUProfile(buf)
	dieOnErr(err)

	time.Sleep(time.Second)

	pprof.StopCPUProfile()

	prof, err := profile.ParseData(buf.Bytes())
	dieOnErr(err)

	data, err := json.Marshal(prof)
	dieOnErr(err)

	_, err = w.Write(data)
	dieOnErr(err)
}

func dieOnErr(err error) {
	if err != nil {
		log.Panic(err)
	}
}
