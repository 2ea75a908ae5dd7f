//go:build e2e

package reservation_test

import (
	"fmt"
	"net/http"
	"sync"
	"testing"
	"time"

	"parkspot/internal/domain/user"
	reqdto "parkspot/internal/handler/dto/request"
	resdto "parkspot/internal/handler/dto/response"
	"parkspot/internal/handler/middleware"
	"parkspot/internal/usecase/shared"
	"parkspot/tests/common/authtest"
	"parkspot/tests/common/builder"
	"parkspot/tests/common/dbtest"
	"parkspot/tests/common/httptest"
	"parkspot/tests/e2e"

	"github.com/google/go-cmp/cmp"
	"github.com/google/go-cmp/cmp/cmpopts"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

const reservationsURL = "/api/reservations"

type LifecycleSuite struct {
	e2e.SharedSuite
	jwt *authtest.JWTHelper
}

func (s *LifecycleSuite) SetupSuite() {
	s.SharedSuite.SetupSuite()
	s.jwt = authtest.NewJWTHelper(s.Config.JWT)
}

func TestLifecycleSuite(t *testing.T) {
	t.Parallel()
	suite.Run(t, new(LifecycleSuite))
}

func (s *LifecycleSuite) reserve(spotID, userID string) (*resdto.ReservationResponse, int) {
	t := s.T()
	body := builder.NewReservationBuilder().With(func(b *builder.ReservationBuilder) { b.SpotID = spotID }).BuildCreateRequestDTO()
	token := s.jwt.GenerateToken(t, userID, user.RoleViewer)

	w := httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL, body, token)
	if w.Code != http.StatusCreated {
		return nil, w.Code
	}
	id := httptest.AssertLocation(t, w, reservationsURL+"/")
	var res resdto.ReservationResponse
	require.NoError(t, httptest.DecodeResponseBody(t, w.Body, &res))
	require.Equal(t, id, res.ID)
	return &res, w.Code
}

// =============================================================================
// Happy path: reserve, enter, end
// =============================================================================

func (s *LifecycleSuite) TestFullSession() {
	s.Run("reserve, enter with the code, end the session", func() {
		t := s.T()
		dbtest.CreateTestSpot(t, s.DB, "P1A-1", "P1", "available")
		token := s.jwt.GenerateToken(t, "driver-1", user.RoleViewer)
		created := s.SubscribeEvents(shared.EventReservationCreated)
		completed := s.SubscribeEvents(shared.EventReservationCompleted)

		res, code := s.reserve("P1A-1", "driver-1")
		require.Equal(t, http.StatusCreated, code)
		require.Equal(t, "pending", res.Status)
		require.Len(t, res.AccessCode, 8)
		require.Equal(t, "reserved", dbtest.SpotStatus(t, s.DB, "P1A-1"))

		ev := s.AwaitEvent(created)
		require.Equal(t, res.ID, ev.ReservationID)
		require.Equal(t, "P1A-1", ev.SpotID)
		require.Equal(t, "reserved", ev.SpotStatus)

		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			fmt.Sprintf("%s/%s/entry", reservationsURL, res.ID), reqdto.EntryRequest{Code: "WRONG000"}, token)
		httptest.AssertErrorCode(t, w, http.StatusForbidden, "INVALID_CODE")
		require.Equal(t, "pending", dbtest.ReservationStatus(t, s.DB, res.ID))

		w = httptest.PerformRequest(t, s.Router, http.MethodPost,
			fmt.Sprintf("%s/%s/entry", reservationsURL, res.ID), reqdto.EntryRequest{Code: res.AccessCode}, token)
		var active resdto.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &active)
		require.Equal(t, "active", active.Status)
		require.NotNil(t, active.ParkingSession.StartTime)
		require.Equal(t, "occupied", dbtest.SpotStatus(t, s.DB, "P1A-1"))

		w = httptest.PerformRequest(t, s.Router, http.MethodPost,
			fmt.Sprintf("%s/%s/end", reservationsURL, res.ID), nil, token)
		var done resdto.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &done)
		require.Equal(t, "completed", done.Status)
		require.Equal(t, "available", dbtest.SpotStatus(t, s.DB, "P1A-1"))
		require.Equal(t, res.ID, s.AwaitEvent(completed).ReservationID)

		// the read view agrees with what the commands returned; browsers
		// authenticate with the session cookie instead of a bearer header
		w = httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"/"+res.ID, nil, "",
			httptest.WithCookie(middleware.AccessTokenCookie, token),
			httptest.WithHeader("X-Request-ID", "e2e-full-session"))
		require.Equal(t, "e2e-full-session", w.Header().Get("X-Request-ID"))
		var fetched resdto.ReservationResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &fetched)
		if diff := cmp.Diff(done, fetched, cmpopts.EquateApproxTime(time.Millisecond)); diff != "" {
			t.Errorf("reservation mismatch (-command +query):\n%s", diff)
		}
	})

	s.Run("gate entry by spot and code", func() {
		t := s.T()
		dbtest.CreateTestSpot(t, s.DB, "P1A-2", "P1", "available")
		res, code := s.reserve("P1A-2", "driver-2")
		require.Equal(t, http.StatusCreated, code)

		kiosk := s.jwt.GenerateToken(t, "gate-kiosk", user.RoleViewer)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/spots/P1A-2/entry",
			reqdto.EntryRequest{Code: res.AccessCode}, kiosk)
		httptest.AssertSuccessResponse(t, w, http.StatusOK, nil)
		require.Equal(t, "occupied", dbtest.SpotStatus(t, s.DB, "P1A-2"))

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/spots/P1A-2/entry",
			reqdto.EntryRequest{Code: res.AccessCode}, kiosk)
		httptest.AssertErrorCode(t, w, http.StatusConflict, "INVALID_STATE")
	})
}

// =============================================================================
// Concurrency: one winner per spot
// =============================================================================

func (s *LifecycleSuite) TestConcurrentReserve() {
	s.Run("exactly one of many simultaneous reservations wins", func() {
		t := s.T()
		dbtest.CreateTestSpot(t, s.DB, "P2B-7", "P2", "available")

		const n = 12
		codes := make([]int, n)
		var wg sync.WaitGroup
		for i := range n {
			wg.Add(1)
			go func() {
				defer wg.Done()
				_, codes[i] = s.reserve("P2B-7", fmt.Sprintf("racer-%d", i))
			}()
		}
		wg.Wait()

		created, conflicts := 0, 0
		for _, c := range codes {
			switch c {
			case http.StatusCreated:
				created++
			case http.StatusConflict:
				conflicts++
			}
		}
		require.Equal(t, 1, created, "codes: %v", codes)
		require.Equal(t, n-1, conflicts, "codes: %v", codes)
		require.Equal(t, 1, dbtest.CountOpenReservations(t, s.DB, "P2B-7"))
		require.Equal(t, "reserved", dbtest.SpotStatus(t, s.DB, "P2B-7"))
	})
}

// =============================================================================
// Expiry: late entry and the operator sweep
// =============================================================================

func (s *LifecycleSuite) TestExpiry() {
	s.Run("late entry cancels the reservation and frees the spot", func() {
		t := s.T()
		dbtest.CreateTestSpot(t, s.DB, "P1A-3", "P1", "available")
		res, code := s.reserve("P1A-3", "late-driver")
		require.Equal(t, http.StatusCreated, code)
		dbtest.BackdateReservation(t, s.DB, res.ID, 16*time.Minute)

		token := s.jwt.GenerateToken(t, "late-driver", user.RoleViewer)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost,
			fmt.Sprintf("%s/%s/entry", reservationsURL, res.ID), reqdto.EntryRequest{Code: res.AccessCode}, token)
		httptest.AssertErrorCode(t, w, http.StatusGone, "EXPIRED")

		require.Equal(t, "cancelled", dbtest.ReservationStatus(t, s.DB, res.ID))
		require.Equal(t, "available", dbtest.SpotStatus(t, s.DB, "P1A-3"))
	})

	s.Run("operator sweep expires only overdue reservations", func() {
		t := s.T()
		dbtest.CreateTestSpot(t, s.DB, "P1A-4", "P1", "available")
		dbtest.CreateTestSpot(t, s.DB, "P1A-5", "P1", "available")
		stale, _ := s.reserve("P1A-4", "d4")
		fresh, _ := s.reserve("P1A-5", "d5")
		dbtest.BackdateReservation(t, s.DB, stale.ID, time.Hour)

		viewer := s.jwt.GenerateToken(t, "d4", user.RoleViewer)
		w := httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/admin/expiry-sweep", nil, viewer)
		require.Equal(t, http.StatusForbidden, w.Code)

		operator := s.jwt.GenerateToken(t, "ops", user.RoleOperator)
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/admin/expiry-sweep", nil, operator)
		var sweep resdto.SweepResponse
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &sweep)
		require.Equal(t, 1, sweep.Expired)
		require.Equal(t, stale.ID, sweep.Reservations[0].ID)

		require.Equal(t, "cancelled", dbtest.ReservationStatus(t, s.DB, stale.ID))
		require.Equal(t, "available", dbtest.SpotStatus(t, s.DB, "P1A-4"))
		require.Equal(t, "pending", dbtest.ReservationStatus(t, s.DB, fresh.ID))

		// a second sweep finds nothing
		w = httptest.PerformRequest(t, s.Router, http.MethodPost, "/api/admin/expiry-sweep", nil, operator)
		httptest.AssertSuccessResponse(t, w, http.StatusOK, &sweep)
		require.Equal(t, 0, sweep.Expired)
	})
}

// =============================================================================
// Ownership and auth
// =============================================================================

func (s *LifecycleSuite) TestOwnership() {
	s.Run("other drivers cannot see or cancel a reservation", func() {
		t := s.T()
		dbtest.CreateTestSpot(t, s.DB, "P1A-6", "P1", "available")
		res, _ := s.reserve("P1A-6", "owner")

		intruder := s.jwt.GenerateToken(t, "intruder", user.RoleViewer)
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL+"/"+res.ID, nil, intruder)
		httptest.AssertErrorCode(t, w, http.StatusNotFound, "NOT_FOUND")

		w = httptest.PerformRequest(t, s.Router, http.MethodPost, reservationsURL+"/"+res.ID+"/cancel", nil, intruder)
		httptest.AssertErrorCode(t, w, http.StatusNotFound, "NOT_FOUND")
		require.Equal(t, "pending", dbtest.ReservationStatus(t, s.DB, res.ID))
	})

	s.Run("expired token is rejected", func() {
		t := s.T()
		expired := s.jwt.CreateExpiredToken(t, "driver-1", user.RoleViewer)
		w := httptest.PerformRequest(t, s.Router, http.MethodGet, reservationsURL, nil, expired)
		require.Equal(t, http.StatusUnauthorized, w.Code)
	})
}
