//go:build integration

package integration_test

import (
	"log"
	"net/http"
	"os"
	"testing"
	"time"

	. "github.com/Eun/go-hit"
)

const (
	// Attempts connection
	attempts = 20

	userHeader = "X-User-ID"
)

var (
	host       = hostFromEnv()
	healthPath = "http://" + host + "/healthz"
	basePath   = "http://" + host + "/v1"
)

func hostFromEnv() string {
	if h := os.Getenv("INTEGRATION_HOST"); h != "" {
		return h
	}

	return "localhost:8080"
}

func TestMain(m *testing.M) {
	err := healthCheck(attempts)
	if err != nil {
		log.Fatalf("Integration tests: host %s is not available: %s", host, err)
	}

	log.Printf("Integration tests: host %s is available", host)

	code := m.Run()
	os.Exit(code)
}

func healthCheck(attempts int) error {
	var err error

	for attempts > 0 {
		err = Do(Get(healthPath), Expect().Status().Equal(http.StatusOK))
		if err == nil {
			return nil
		}

		log.Printf("Integration tests: url %s is not available, attempts left: %d", healthPath, attempts)

		time.Sleep(time.Second)

		attempts--
	}

	return err
}

// The server is expected to run with the sample config: couple c1 of alice and bob.

func TestHTTPMe(t *testing.T) {
	Test(t,
		Description("Me Success"),
		Get(basePath+"/me"),
		Send().Headers(userHeader).Add("alice"),
		Expect().Status().Equal(http.StatusOK),
		Expect().Body().JSON().JQ(".partnerId").Equal("bob"),
		Expect().Body().JSON().JQ(".coupleId").Equal("c1"),
	)

	Test(t,
		Description("Me Unauthorized"),
		Get(basePath+"/me"),
		Expect().Status().Equal(http.StatusUnauthorized),
	)
}

func TestHTTPCallFlow(t *testing.T) {
	post := func(user, body string) IStep {
		return CombineSteps(
			Post(basePath+"/call"),
			Send().Headers(userHeader).Add(user),
			Send().Headers("Content-Type").Add("application/json"),
			Send().Body().String(body),
		)
	}

	Test(t,
		Description("End leftovers"),
		post("alice", `{"type":"end"}`),
		Expect().Status().Equal(http.StatusOK),
	)

	var callID string

	Test(t,
		Description("Start"),
		post("alice", `{"type":"start","kind":"video"}`),
		Expect().Status().Equal(http.StatusOK),
		Expect().Body().JSON().JQ(".call.callerId").Equal("alice"),
		Expect().Body().JSON().JQ(".call.status").Equal("ringing"),
		Store().Response().Body().JSON().JQ(".call.callId").In(&callID),
	)

	Test(t,
		Description("Partner start loses the race"),
		post("bob", `{"type":"start","kind":"audio"}`),
		Expect().Status().Equal(http.StatusOK),
		Expect().Body().JSON().JQ(".call.callerId").Equal("alice"),
		Expect().Body().JSON().JQ(".call.kind").Equal("video"),
	)

	Test(t,
		Description("Answer before offer"),
		post("bob", `{"type":"answer","callId":"`+callID+`"}`),
		Expect().Status().Equal(http.StatusConflict),
	)

	Test(t,
		Description("Offer"),
		post("alice", `{"type":"signal","callId":"`+callID+`","role":"caller","offer":"v=0 offer"}`),
		Expect().Status().Equal(http.StatusOK),
	)

	Test(t,
		Description("Callee may not write the offer"),
		post("bob", `{"type":"signal","callId":"`+callID+`","role":"caller","offer":"v=0 forged"}`),
		Expect().Status().Equal(http.StatusForbidden),
	)

	Test(t,
		Description("One payload per signal"),
		post("bob", `{"type":"signal","callId":"`+callID+`","role":"callee","answer":"v=0 answer","candidate":"cand-1"}`),
		Expect().Status().Equal(http.StatusBadRequest),
	)

	Test(t,
		Description("Answer SDP"),
		post("bob", `{"type":"signal","callId":"`+callID+`","role":"callee","answer":"v=0 answer"}`),
		Expect().Status().Equal(http.StatusOK),
	)

	Test(t,
		Description("Candidate"),
		post("bob", `{"type":"signal","callId":"`+callID+`","role":"callee","candidate":"cand-1"}`),
		Expect().Status().Equal(http.StatusOK),
		Expect().Body().JSON().JQ(".call.calleeCandidates").Equal([]interface{}{"cand-1"}),
	)

	Test(t,
		Description("Answer"),
		post("bob", `{"type":"answer","callId":"`+callID+`"}`),
		Expect().Status().Equal(http.StatusOK),
		Expect().Body().JSON().JQ(".call.status").Equal("connected"),
	)

	Test(t,
		Description("Stale call id"),
		post("alice", `{"type":"signal","callId":"00000000-0000-0000-0000-000000000000","role":"caller","candidate":"x"}`),
		Expect().Status().Equal(http.StatusNotFound),
	)

	Test(t,
		Description("End"),
		post("bob", `{"type":"end"}`),
		Expect().Status().Equal(http.StatusOK),
		Expect().Body().JSON().JQ(".call").Equal(nil),
	)

	Test(t,
		Description("Nothing left"),
		Get(basePath+"/call"),
		Send().Headers(userHeader).Add("alice"),
		Expect().Status().Equal(http.StatusOK),
		Expect().Body().JSON().JQ(".call").Equal(nil),
	)
}
