package handler

import (
    "context"
    "errors"
    "net/http"
    "regexp"
    "testing"

    "github.com/DATA-DOG/go-sqlmock"
    "github.com/labstack/echo/v4"
    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"

    "github.com/iliyamo/venue-booking/internal/middleware"
    "github.com/iliyamo/venue-booking/internal/model"
    "github.com/iliyamo/venue-booking/internal/payment"
    "github.com/iliyamo/venue-booking/internal/repository"
)

var bookingCols = []string{"id", "user_id", "session_id", "venue_id", "venue_name", "selection", "subtotal",
    "service_fee", "discount_pct", "total_amount", "customer_name", "email", "phone", "referral_code", "perks",
    "loyalty_points", "payment_ref", "status", "created_at"}

func bookingRows(id, uid uint64, paymentRef, status string) *sqlmock.Rows {
    return sqlmock.NewRows(bookingCols).AddRow(id, uid, "sess-1", 7, "Quilox",
        `{"venue_id":7,"venue_name":"Quilox","ticket":{"id":1,"name":"General","price":15000}}`,
        15000, "25", 0, 15025, "Ada Obi", "ada@example.com", "+234", nil,
        `["Free Welcome Drink","Priority Queue"]`, 150, paymentRef, status, fixedTime)
}

func newReferralAdminEcho(t *testing.T) (*echo.Echo, sqlmock.Sqlmock) {
    t.Helper()
    db, mock := newMock(t)
    h := NewAdminHandler(nil, repository.NewReferralRepo(db), repository.NewBookingRepo(db))
    e := echo.New()
    g := e.Group("/v1/admin", middleware.JWTAuth(testSecret), middleware.RequireRole(model.RoleAdmin))
    g.GET("/referrals", h.ListReferrals)
    g.POST("/referrals", h.CreateReferral)
    g.DELETE("/referrals/:code", h.DeleteReferral)
    g.GET("/bookings", h.ListBookings)
    return e, mock
}

func TestAdminCreatesReferralNormalized(t *testing.T) {
    e, mock := newReferralAdminEcho(t)
    mock.ExpectExec(regexp.QuoteMeta("INSERT INTO referral_codes (code, discount_pct, perks) VALUES (?, ?, ?)")).
        WithArgs("SUMMER25", 25, `["Skip the Line"]`).
        WillReturnResult(sqlmock.NewResult(0, 1))

    rec := do(e, http.MethodPost, "/v1/admin/referrals",
        map[string]any{"code": " summer25 ", "discount_pct": 25, "perks": []string{" Skip the Line ", "", "Skip the Line"}},
        bearer(t, 1, model.RoleAdmin))
    require.Equal(t, http.StatusCreated, rec.Code, rec.Body.String())
    assert.Equal(t, "SUMMER25", decode(t, rec)["code"])
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminReferralValidation(t *testing.T) {
    e, mock := newReferralAdminEcho(t)
    rec := do(e, http.MethodPost, "/v1/admin/referrals",
        map[string]any{"code": "a b", "discount_pct": 120}, bearer(t, 1, model.RoleAdmin))
    require.Equal(t, http.StatusUnprocessableEntity, rec.Code)
    fields := decode(t, rec)["fields"].(map[string]any)
    assert.Contains(t, fields, "code")
    assert.Contains(t, fields, "discount_pct")
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestAdminDeleteReferral(t *testing.T) {
    e, mock := newReferralAdminEcho(t)
    const q = "DELETE FROM referral_codes WHERE code = ?"
    mock.ExpectExec(regexp.QuoteMeta(q)).WithArgs("VIP2025").WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectExec(regexp.QuoteMeta(q)).WithArgs("VIP2025").WillReturnResult(sqlmock.NewResult(0, 0))

    admin := bearer(t, 1, model.RoleAdmin)
    rec := do(e, http.MethodDelete, "/v1/admin/referrals/vip2025", nil, admin)
    assert.Equal(t, http.StatusNoContent, rec.Code)
    rec = do(e, http.MethodDelete, "/v1/admin/referrals/vip2025", nil, admin)
    assert.Equal(t, http.StatusNotFound, rec.Code)
}

func TestAdminListsReferrals(t *testing.T) {
    e, mock := newReferralAdminEcho(t)
    mock.ExpectQuery(regexp.QuoteMeta("FROM referral_codes ORDER BY code")).
        WillReturnRows(sqlmock.NewRows([]string{"code", "discount_pct", "perks"}).AddRow("VIP2025", 10, `[]`))

    rec := do(e, http.MethodGet, "/v1/admin/referrals", nil, bearer(t, 1, model.RoleAdmin))
    require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
    assert.EqualValues(t, 1, decode(t, rec)["count"])
}

func TestAdminListsBookings(t *testing.T) {
    e, mock := newReferralAdminEcho(t)
    mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE status = ? ORDER BY created_at DESC, id DESC LIMIT ?")).
        WithArgs("confirmed", 500).
        WillReturnRows(bookingRows(3, 8, "pay_abc", "confirmed"))

    admin := bearer(t, 1, model.RoleAdmin)
    rec := do(e, http.MethodGet, "/v1/admin/bookings?status=confirmed&limit=9999", nil, admin)
    require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
    assert.EqualValues(t, 1, decode(t, rec)["count"])

    rec = do(e, http.MethodGet, "/v1/admin/bookings?status=lost", nil, admin)
    assert.Equal(t, http.StatusBadRequest, rec.Code)
    rec = do(e, http.MethodGet, "/v1/admin/bookings?limit=0", nil, admin)
    assert.Equal(t, http.StatusBadRequest, rec.Code)

    rec = do(e, http.MethodGet, "/v1/admin/bookings", nil, bearer(t, 8, model.RoleCustomer))
    assert.Equal(t, http.StatusForbidden, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}

type refundRecorder struct {
    err      error
    refunded []payment.Receipt
}

func (r *refundRecorder) Charge(context.Context, int64, string) (payment.Receipt, error) {
    return payment.Receipt{}, errors.New("not used")
}

func (r *refundRecorder) Refund(_ context.Context, rc payment.Receipt) error {
    r.refunded = append(r.refunded, rc)
    return r.err
}

func newCancelEcho(t *testing.T, pay payment.Processor) (*echo.Echo, sqlmock.Sqlmock) {
    t.Helper()
    db, mock := newMock(t)
    h := NewCustomerHandler(repository.NewBookingRepo(db), repository.NewVenueRepo(db), repository.NewSavedVenueRepo(db), pay)
    e := echo.New()
    e.POST("/v1/bookings/:id/cancel", h.CancelBooking, middleware.JWTAuth(testSecret))
    return e, mock
}

func TestCancelRefundsPayment(t *testing.T) {
    pay := &refundRecorder{}
    e, mock := newCancelEcho(t, pay)
    mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = 'cancelled'")).
        WithArgs(uint64(3), uint64(8)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = ? AND user_id = ?")).
        WithArgs(uint64(3), uint64(8)).
        WillReturnRows(bookingRows(3, 8, "pay_abc", "cancelled"))

    rec := do(e, http.MethodPost, "/v1/bookings/3/cancel", nil, bearer(t, 8, model.RoleCustomer))
    require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
    assert.Equal(t, "cancelled", decode(t, rec)["status"])
    require.Len(t, pay.refunded, 1)
    assert.Equal(t, payment.Receipt{Reference: "pay_abc", Amount: 15025}, pay.refunded[0])
    assert.NoError(t, mock.ExpectationsWereMet())
}

func TestCancelFreeBookingSkipsRefund(t *testing.T) {
    pay := &refundRecorder{}
    e, mock := newCancelEcho(t, pay)
    mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = 'cancelled'")).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = ? AND user_id = ?")).
        WillReturnRows(bookingRows(3, 8, "", "cancelled"))

    rec := do(e, http.MethodPost, "/v1/bookings/3/cancel", nil, bearer(t, 8, model.RoleCustomer))
    require.Equal(t, http.StatusOK, rec.Code, rec.Body.String())
    assert.Empty(t, pay.refunded)
}

func TestCancelReinstatesBookingWhenRefundFails(t *testing.T) {
    pay := &refundRecorder{err: errors.New("gateway unavailable")}
    e, mock := newCancelEcho(t, pay)
    mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = 'cancelled'")).
        WithArgs(uint64(3), uint64(8)).
        WillReturnResult(sqlmock.NewResult(0, 1))
    mock.ExpectQuery(regexp.QuoteMeta("FROM bookings WHERE id = ? AND user_id = ?")).
        WillReturnRows(bookingRows(3, 8, "pay_abc", "cancelled"))
    mock.ExpectExec(regexp.QuoteMeta("UPDATE bookings SET status = 'confirmed'")).
        WithArgs(uint64(3), uint64(8)).
        WillReturnResult(sqlmock.NewResult(0, 1))

    rec := do(e, http.MethodPost, "/v1/bookings/3/cancel", nil, bearer(t, 8, model.RoleCustomer))
    assert.Equal(t, http.StatusBadGateway, rec.Code)
    assert.NoError(t, mock.ExpectationsWereMet())
}
