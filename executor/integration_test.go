package executor

import (
	"time"

	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"

	"github.com/j-rivero/rclgo/core"
	"github.com/j-rivero/rclgo/middleware/loopback"
	"github.com/j-rivero/rclgo/params"
)

var _ = Describe("Parameter calls over loopback", func() {
	var (
		mw     *loopback.Middleware
		exec   *SingleThreaded
		server *params.Server
		client *params.AsyncClient
		sync   *params.SyncClient
	)

	BeforeEach(func() {
		mw = loopback.New()
		exec = NewSingleThreaded(mw)

		var err error
		server, err = params.NewServer(mw, "talker")
		Expect(err).ToNot(HaveOccurred())

		client, err = params.NewAsyncClient(params.Config{
			Transport:  mw,
			NodeName:   "listener",
			RemoteName: "talker",
		})
		Expect(err).ToNot(HaveOccurred())

		for _, w := range server.Waitables() {
			exec.Add(w)
		}
		for _, w := range client.Waitables() {
			exec.Add(w)
		}

		server.Declare("use_sim_time", true)
		server.Declare("robot.speed", 0.5)

		sync = params.NewSyncClient(client, exec.Step())
	})

	It("should resolve an asynchronous get by spinning", func() {
		future, err := client.GetParameters(
			[]string{"use_sim_time"}, nil)
		Expect(err).ToNot(HaveOccurred())
		Expect(future.Ready()).To(BeFalse())

		err = core.WaitUntil(future.Ready, exec.Step(), core.NoTimeout)
		Expect(err).ToNot(HaveOccurred())

		parameters, err := future.Get()
		Expect(err).ToNot(HaveOccurred())
		Expect(parameters).To(Equal([]params.Parameter{
			{Name: "use_sim_time", Value: true},
		}))
	})

	It("should complete the five call shapes synchronously", func() {
		parameters, err := sync.GetParameters(
			[]string{"robot.speed", "use_sim_time"}, core.NoTimeout)
		Expect(err).ToNot(HaveOccurred())
		Expect(parameters).To(Equal([]params.Parameter{
			{Name: "robot.speed", Value: 0.5},
			{Name: "use_sim_time", Value: true},
		}))

		types, err := sync.GetParameterTypes(
			[]string{"robot.speed"}, core.NoTimeout)
		Expect(err).ToNot(HaveOccurred())
		Expect(types).To(Equal([]params.Type{params.TypeFloat}))

		results, err := sync.SetParameters([]params.Parameter{
			{Name: "robot.speed", Value: 0.8},
		}, core.NoTimeout)
		Expect(err).ToNot(HaveOccurred())
		Expect(results).To(HaveLen(1))
		Expect(results[0].Successful).To(BeTrue())

		result, err := sync.SetParametersAtomically([]params.Parameter{
			{Name: "robot.speed", Value: 0.9},
			{Name: "robot.name", Value: "rover"},
		}, core.NoTimeout)
		Expect(err).ToNot(HaveOccurred())
		Expect(result.Successful).To(BeTrue())

		listed, err := sync.ListParameters([]string{"robot"},
			params.DepthRecursive, core.NoTimeout)
		Expect(err).ToNot(HaveOccurred())
		Expect(listed.Names).To(Equal([]string{
			"robot.name", "robot.speed",
		}))

		value, ok := server.Value("robot.speed")
		Expect(ok).To(BeTrue())
		Expect(value).To(Equal(0.9))
	})

	It("should answer an empty get with an empty result", func() {
		parameters, err := sync.GetParameters(nil, core.NoTimeout)

		Expect(err).ToNot(HaveOccurred())
		Expect(parameters).To(BeEmpty())
	})

	It("should leave the call in flight when nobody spins", func() {
		_, err := client.GetParameters([]string{"use_sim_time"}, nil)
		Expect(err).ToNot(HaveOccurred())

		Expect(client.InFlight()).To(Equal(1))
	})

	It("should time out a call to an absent node", func() {
		orphan, err := params.NewAsyncClient(params.Config{
			Transport:  mw,
			NodeName:   "listener",
			RemoteName: "ghost",
		})
		Expect(err).ToNot(HaveOccurred())

		_, err = orphan.GetParameters([]string{"use_sim_time"}, nil)

		Expect(err).To(MatchError(loopback.ErrNoService))
	})

	It("should run completion callbacks on the spinning thread", func() {
		var completed bool

		_, err := client.GetParameters([]string{"use_sim_time"},
			func(f *core.Future[[]params.Parameter]) {
				completed = f.Ready()
			})
		Expect(err).ToNot(HaveOccurred())
		Expect(completed).To(BeFalse())

		err = core.WaitUntil(func() bool { return completed },
			exec.Step(), time.Second)

		Expect(err).ToNot(HaveOccurred())
	})
})
