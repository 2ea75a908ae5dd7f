//go:build unit

package api_test

import (
	"net/http"
	"strings"
	"testing"

	"parkspot/internal/domain/reservation"
	"parkspot/internal/domain/user"
	"parkspot/internal/handler/api"
	reqdto "parkspot/internal/handler/dto/request"
	resdto "parkspot/internal/handler/dto/response"
	"parkspot/internal/pkg/errs"
	"parkspot/internal/usecase/queries"
	"parkspot/tests/common/builder"
	"parkspot/tests/common/httptest"
	"parkspot/tests/common/testutil"
	commandsmock "parkspot/tests/mock/commands"
	queriesmock "parkspot/tests/mock/queries"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/suite"
	"go.uber.org/mock/gomock"
)

type ReservationHandlerTestSuite struct {
	suite.Suite
	router       *gin.Engine
	mockCtrl     *gomock.Controller
	mockCommands *commandsmock.MockLifecycleCommands
	mockQueries  *queriesmock.MockReservationQueries
	handler      *api.ReservationHandler
}

// fakeAuth stands in for AuthMiddleware: the bearer token is taken as the user id.
func fakeAuth(role user.Role) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := strings.TrimPrefix(c.GetHeader("Authorization"), "Bearer ")
		if token == "" {
			c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": gin.H{"message": "Unauthorized"}})
			return
		}
		c.Set("user_id", token)
		c.Set("user_role", role)
		c.Next()
	}
}

func (s *ReservationHandlerTestSuite) SetupTest() {
	gin.SetMode(gin.TestMode)
	s.router = gin.New()

	s.mockCtrl = gomock.NewController(s.T())
	s.mockCommands = commandsmock.NewMockLifecycleCommands(s.mockCtrl)
	s.mockQueries = queriesmock.NewMockReservationQueries(s.mockCtrl)
	s.handler = api.NewReservationHandler(s.mockCommands, s.mockQueries)

	g := s.router.Group("/reservations", fakeAuth(user.RoleViewer))
	g.POST("", s.handler.Create)
	g.GET("", s.handler.List)
	g.GET("/:id", s.handler.Get)
	g.POST("/:id/entry", s.handler.Entry)
	g.POST("/:id/end", s.handler.End)
	g.POST("/:id/cancel", s.handler.Cancel)
}

func (s *ReservationHandlerTestSuite) TearDownTest() {
	s.mockCtrl.Finish()
}

func TestReservationHandlerSuite(t *testing.T) {
	suite.Run(t, new(ReservationHandlerTestSuite))
}

var owner = user.Actor{UserID: "u1", Role: user.RoleViewer}

type testCaseReservation struct {
	name       string
	mutate     testutil.Mutation
	expectCode int
}

// ================================================================================
// TestCreate
// ================================================================================

func (s *ReservationHandlerTestSuite) TestCreate() {
	url := "/reservations"

	b := builder.NewReservationBuilder()
	reqBody := b.BuildCreateRequestDTO()
	returnView := b.BuildView(reservation.StatusPending)

	s.Run("success: returns 201 Created with the access code", func() {
		s.mockCommands.EXPECT().Reserve(gomock.Any(), "4", "u1", b.BuildDriver()).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "u1")

		var body resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, &body)
		s.Equal(returnView.ID, body.ID)
		s.Equal("pending", body.Status)
		s.Equal("K7PX2M9Q", body.AccessCode)
		s.Require().NotNil(body.ParkingSession.RemainingSeconds)
		s.Equal(int64(15*60), *body.ParkingSession.RemainingSeconds)
		httptest.AssertHeaders(s.T(), rec, map[string]string{"Location": "/api/reservations/" + returnView.ID})
	})

	s.Run("success: fields are trimmed and the plate upper-cased", func() {
		messy := reqBody
		messy.FullName = "  A B "
		messy.LicensePlate = " abc123 "
		s.mockCommands.EXPECT().Reserve(gomock.Any(), "4", "u1", b.BuildDriver()).
			Return(returnView, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, messy, "u1")
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusCreated, nil)
	})

	s.Run("error: 400 Bad Request on binding errors", func() {
		cases := []testCaseReservation{
			{name: "missing field: spot_id (required)", mutate: testutil.Field("spot_id", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: full_name (required)", mutate: testutil.Field("full_name", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: email (required)", mutate: testutil.Field("email", nil), expectCode: http.StatusBadRequest},
			{name: "missing field: license_plate (required)", mutate: testutil.Field("license_plate", nil), expectCode: http.StatusBadRequest},
			{name: "empty full_name", mutate: testutil.Field("full_name", ""), expectCode: http.StatusBadRequest},
			{name: "plate too long (21 chars)", mutate: testutil.Field("license_plate", strings.Repeat("X", 21)), expectCode: http.StatusBadRequest},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				requestMap := testutil.DtoMap(s.T(), reqBody, tc.mutate)
				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, requestMap, "u1")
				httptest.AssertErrorCode(s.T(), rec, tc.expectCode, "VALIDATION_ERROR")
			})
		}
	})

	s.Run("error: maps lifecycle failures onto HTTP statuses", func() {
		cases := []struct {
			name       string
			err        error
			expectCode int
			kind       string
			message    string
		}{
			{name: "malformed email", err: reservation.ErrInvalidEmail, expectCode: http.StatusBadRequest, kind: "VALIDATION_ERROR", message: "email is malformed"},
			{name: "unknown spot", err: errs.Mark(errs.New("spot 4 not found"), errs.ErrNotFound), expectCode: http.StatusNotFound, kind: "NOT_FOUND"},
			{name: "spot taken", err: errs.Mark(errs.New("spot 4 is reserved"), errs.ErrSpotUnavailable), expectCode: http.StatusConflict, kind: "SPOT_UNAVAILABLE", message: "This spot was just taken"},
			{name: "store failure", err: errs.New("connection reset"), expectCode: http.StatusInternalServerError, kind: "INTERNAL", message: "Internal server error"},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockCommands.EXPECT().Reserve(gomock.Any(), gomock.Any(), gomock.Any(), gomock.Any()).
					Return(nil, tc.err).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "u1")
				httptest.AssertErrorCode(s.T(), rec, tc.expectCode, tc.kind)
				httptest.AssertErrorResponse(s.T(), rec, tc.expectCode, tc.message)
			})
		}
	})

	s.Run("error: 401 without a token", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqBody, "")
		httptest.AssertErrorResponse(s.T(), rec, http.StatusUnauthorized, "Unauthorized")
	})
}

// ================================================================================
// TestList / TestGet
// ================================================================================

func (s *ReservationHandlerTestSuite) TestList() {
	s.Run("success: returns the caller's reservations", func() {
		views := []*queries.ReservationView{
			builder.NewReservationBuilder().With(func(b *builder.ReservationBuilder) { b.ID = "res-2" }).BuildView(reservation.StatusPending),
			builder.NewReservationBuilder().BuildView(reservation.StatusCompleted),
		}
		s.mockQueries.EXPECT().ListByUser(gomock.Any(), "u1").Return(views, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations", nil, "u1")

		var body []resdto.ReservationListResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Require().Len(body, 2)
		s.Equal("res-2", body[0].ID)
		s.NotNil(body[0].RemainingSeconds)
		s.Nil(body[1].RemainingSeconds)
	})

	s.Run("success: empty list is an empty array", func() {
		s.mockQueries.EXPECT().ListByUser(gomock.Any(), "u9").Return(nil, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations", nil, "u9")
		s.Equal(http.StatusOK, rec.Code)
		s.JSONEq(`[]`, rec.Body.String())
	})
}

func (s *ReservationHandlerTestSuite) TestGet() {
	s.Run("success: owner sees the reservation", func() {
		view := builder.NewReservationBuilder().BuildView(reservation.StatusPending)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), owner, "res-1").Return(view, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations/res-1", nil, "u1")

		var body resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("ABC123", body.CarDetails.LicensePlate)
	})

	s.Run("error: 404 when hidden or missing", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), gomock.Any(), "res-x").
			Return(nil, errs.Mark(errs.New("reservation res-x not found"), errs.ErrNotFound)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodGet, "/reservations/res-x", nil, "u1")
		httptest.AssertErrorCode(s.T(), rec, http.StatusNotFound, "NOT_FOUND")
	})
}

// ================================================================================
// TestEntry / TestEnd / TestCancel
// ================================================================================

func (s *ReservationHandlerTestSuite) TestEntry() {
	url := "/reservations/res-1/entry"
	pending := builder.NewReservationBuilder().BuildView(reservation.StatusPending)
	active := builder.NewReservationBuilder().BuildView(reservation.StatusActive)

	s.Run("success: activates with the right code", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), owner, "res-1").Return(pending, nil).Times(1)
		s.mockCommands.EXPECT().ConfirmEntry(gomock.Any(), "res-1", "K7PX2M9Q").Return(active, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqdto.EntryRequest{Code: "K7PX2M9Q"}, "u1")

		var body resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("active", body.Status)
	})

	s.Run("error: lifecycle failures", func() {
		cases := []struct {
			name       string
			err        error
			expectCode int
			kind       string
		}{
			{name: "wrong code", err: errs.Mark(errs.New("code mismatch"), errs.ErrInvalidCode), expectCode: http.StatusForbidden, kind: "INVALID_CODE"},
			{name: "window passed", err: errs.Mark(errs.New("expired"), errs.ErrExpired), expectCode: http.StatusGone, kind: "EXPIRED"},
			{name: "already active", err: errs.Mark(errs.New("not pending"), errs.ErrInvalidState), expectCode: http.StatusConflict, kind: "INVALID_STATE"},
		}
		for _, tc := range cases {
			s.Run(tc.name, func() {
				s.mockQueries.EXPECT().GetByID(gomock.Any(), owner, "res-1").Return(pending, nil).Times(1)
				s.mockCommands.EXPECT().ConfirmEntry(gomock.Any(), "res-1", "WRONG").Return(nil, tc.err).Times(1)

				rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqdto.EntryRequest{Code: "WRONG"}, "u1")
				httptest.AssertErrorCode(s.T(), rec, tc.expectCode, tc.kind)
			})
		}
	})

	s.Run("error: 400 when the code is missing", func() {
		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, map[string]any{}, "u1")
		httptest.AssertErrorCode(s.T(), rec, http.StatusBadRequest, "VALIDATION_ERROR")
	})

	s.Run("error: 404 for someone else's reservation", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), user.Actor{UserID: "u2", Role: user.RoleViewer}, "res-1").
			Return(nil, errs.Mark(errs.New("reservation res-1 not found"), errs.ErrNotFound)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, url, reqdto.EntryRequest{Code: "K7PX2M9Q"}, "u2")
		httptest.AssertErrorCode(s.T(), rec, http.StatusNotFound, "NOT_FOUND")
	})
}

func (s *ReservationHandlerTestSuite) TestEnd() {
	active := builder.NewReservationBuilder().BuildView(reservation.StatusActive)
	completed := builder.NewReservationBuilder().BuildView(reservation.StatusCompleted)

	s.Run("success: completes an active session", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), owner, "res-1").Return(active, nil).Times(1)
		s.mockCommands.EXPECT().EndSession(gomock.Any(), "res-1").Return(completed, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reservations/res-1/end", nil, "u1")

		var body resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("completed", body.Status)
		s.NotNil(body.ParkingSession.EndTime)
	})

	s.Run("error: operator view of a foreign reservation is still not an owner", func() {
		foreign := builder.NewReservationBuilder().With(func(b *builder.ReservationBuilder) { b.UserID = "u7" }).
			BuildView(reservation.StatusActive)
		s.mockQueries.EXPECT().GetByID(gomock.Any(), owner, "res-1").Return(foreign, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reservations/res-1/end", nil, "u1")
		httptest.AssertErrorCode(s.T(), rec, http.StatusNotFound, "NOT_FOUND")
	})
}

func (s *ReservationHandlerTestSuite) TestCancel() {
	pending := builder.NewReservationBuilder().BuildView(reservation.StatusPending)
	cancelled := builder.NewReservationBuilder().BuildView(reservation.StatusCancelled)

	s.Run("success: cancels a pending reservation", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), owner, "res-1").Return(pending, nil).Times(1)
		s.mockCommands.EXPECT().Cancel(gomock.Any(), "res-1").Return(cancelled, nil).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reservations/res-1/cancel", nil, "u1")

		var body resdto.ReservationResponse
		httptest.AssertSuccessResponse(s.T(), rec, http.StatusOK, &body)
		s.Equal("cancelled", body.Status)
	})

	s.Run("error: 409 once terminal", func() {
		s.mockQueries.EXPECT().GetByID(gomock.Any(), owner, "res-1").Return(cancelled, nil).Times(1)
		s.mockCommands.EXPECT().Cancel(gomock.Any(), "res-1").
			Return(nil, errs.Mark(errs.New("reservation res-1 is cancelled"), errs.ErrInvalidState)).Times(1)

		rec := httptest.PerformRequest(s.T(), s.router, http.MethodPost, "/reservations/res-1/cancel", nil, "u1")
		httptest.AssertErrorCode(s.T(), rec, http.StatusConflict, "INVALID_STATE")
	})
}
