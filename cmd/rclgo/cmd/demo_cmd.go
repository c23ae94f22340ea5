package cmd

import (
	"fmt"
	"log"

	"github.com/spf13/cobra"
	"github.com/tebeka/atexit"

	"github.com/j-rivero/rclgo/core"
	"github.com/j-rivero/rclgo/executor"
	"github.com/j-rivero/rclgo/middleware/loopback"
	"github.com/j-rivero/rclgo/monitoring"
	"github.com/j-rivero/rclgo/params"
	"github.com/j-rivero/rclgo/recording"
)

var (
	demoMonitor bool
	demoRecord  string
	demoRemote  string
)

var demoCmd = &cobra.Command{
	Use:   "demo",
	Short: "Run an in-process parameter server and client over the loopback middleware",
	Run: func(_ *cobra.Command, _ []string) {
		runDemo()
	},
}

func init() {
	demoCmd.Flags().BoolVar(&demoMonitor, "monitor", false,
		"start the monitoring HTTP server")
	demoCmd.Flags().StringVar(&demoRecord, "record", "",
		"record executions and calls to the named SQLite file")
	demoCmd.Flags().StringVar(&demoRemote, "remote", "demo_node",
		"name of the node that owns the parameters")

	rootCmd.AddCommand(demoCmd)
}

func runDemo() {
	mw := loopback.New()
	exec := executor.NewSingleThreaded(mw)

	server, err := params.NewServer(mw, demoRemote)
	if err != nil {
		log.Fatalf("Error creating parameter server: %v", err)
	}
	server.Declare("use_sim_time", false)
	server.Declare("robot.arm.speed", 0.5)
	server.Declare("robot.arm.reach", int64(3))

	client, err := params.NewAsyncClient(params.Config{
		Transport:  mw,
		NodeName:   "demo_client",
		RemoteName: demoRemote,
	})
	if err != nil {
		log.Fatalf("Error creating parameter client: %v", err)
	}

	for _, w := range server.Waitables() {
		exec.Add(w)
	}
	for _, w := range client.Waitables() {
		exec.Add(w)
	}

	if demoRecord != "" {
		recorder := recording.NewRecorder(demoRecord)
		trace := recording.NewTrace(recorder, nil)
		exec.AcceptHook(trace)
		client.AcceptHook(trace)
	}

	if demoMonitor {
		monitor := monitoring.NewMonitor().
			WithConfig(monitoring.LoadConfig())
		monitor.RegisterExecutor(exec)
		monitor.RegisterEntity(server)
		monitor.RegisterClient(client)
		monitor.StartServer()
	}

	sync := params.NewSyncClient(client, exec.Step())

	names, err := sync.ListParameters([]string{"robot"},
		params.DepthRecursive, core.NoTimeout)
	if err != nil {
		log.Fatalf("Error listing parameters: %v", err)
	}
	fmt.Printf("Parameters under robot: %v\n", names.Names)

	values, err := sync.GetParameters(
		[]string{"robot.arm.speed", "use_sim_time"}, core.NoTimeout)
	if err != nil {
		log.Fatalf("Error getting parameters: %v", err)
	}
	for _, p := range values {
		fmt.Printf("%s = %v (%s)\n", p.Name, p.Value, p.Type())
	}

	results, err := sync.SetParameters([]params.Parameter{
		{Name: "robot.arm.speed", Value: 0.8},
	}, core.NoTimeout)
	if err != nil {
		log.Fatalf("Error setting parameters: %v", err)
	}
	for _, r := range results {
		fmt.Printf("set successful=%v reason=%q\n", r.Successful, r.Reason)
	}

	atexit.Exit(0)
}
