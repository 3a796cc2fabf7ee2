package mockapi_test

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"presensi.client/internal/api"
	"presensi.client/internal/core/model"
	"presensi.client/internal/mockapi"
	"presensi.client/internal/platform"
	"presensi.client/internal/ports/storage"
	"presensi.client/internal/session"
)

type harness struct {
	server *mockapi.Server
	url    string
}

func newHarness(t *testing.T) *harness {
	t.Helper()
	s := mockapi.NewServer("test-secret")
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)
	return &harness{server: s, url: srv.URL}
}

func (h *harness) at(t time.Time) {
	h.server.SetClock(func() time.Time { return t })
}

type client struct {
	session   *session.Store
	raw       *api.Client
	auth      *api.AuthAPI
	users     *api.UsersAPI
	presensi  *api.PresensiAPI
	analytics *api.AnalyticsAPI
	navigated []string
}

func (h *harness) newClient(t *testing.T) *client {
	t.Helper()
	c := &client{
		session: session.NewStore(context.Background(), storage.NewMemoryStorage(), platform.Interactive),
	}
	c.raw = api.NewClient(h.url, c.session, api.WithNavigator(api.NavigatorFunc(func(_ context.Context, route string) {
		c.navigated = append(c.navigated, route)
	})))
	c.auth = api.NewAuthAPI(c.raw)
	c.users = api.NewUsersAPI(c.raw)
	c.presensi = api.NewPresensiAPI(c.raw)
	c.analytics = api.NewAnalyticsAPI(c.raw)
	return c
}

func (c *client) login(t *testing.T, email, password string) model.User {
	t.Helper()
	ctx := context.Background()
	resp, err := c.auth.Login(ctx, model.LoginRequest{Email: email, Password: password})
	if err != nil {
		t.Fatalf("login %s: %v", email, err)
	}
	if err := c.session.Login(ctx, resp.Data.Token, resp.Data.User); err != nil {
		t.Fatal(err)
	}
	return resp.Data.User
}

func (h *harness) seed(t *testing.T, email, password, nama string, role model.Role) model.User {
	t.Helper()
	u, err := h.server.SeedUser(email, password, nama, role)
	if err != nil {
		t.Fatal(err)
	}
	return u
}

func requestError(t *testing.T, err error) *api.RequestError {
	t.Helper()
	var reqErr *api.RequestError
	if !errors.As(err, &reqErr) {
		t.Fatalf("err = %v, want *api.RequestError", err)
	}
	return reqErr
}

func TestAttendanceRoundTrip(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seed(t, "admin@x.id", "admin123", "Admin", model.RoleAdmin)
	h.seed(t, "budi@x.id", "budi123", "Budi", model.RoleEmployee)

	h.at(time.Date(2025, 3, 3, 7, 50, 0, 0, time.UTC))

	employee := h.newClient(t)
	budi := employee.login(t, "budi@x.id", "budi123")

	created, err := employee.presensi.Create(ctx, model.CreatePresensiRequest{})
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if created.Data.UserID != budi.ID || created.Data.Tanggal != "2025-03-03" || created.Data.Nama != "Budi" {
		t.Fatalf("created = %+v", created.Data)
	}
	id := created.Data.ID

	in, err := employee.presensi.CheckIn(ctx, id, &model.Location{Latitude: -6.2, Longitude: 106.8})
	if err != nil {
		t.Fatalf("checkin: %v", err)
	}
	if !in.Success || in.Message != "Check-in berhasil" {
		t.Errorf("checkin response = %+v", in)
	}

	h.at(time.Date(2025, 3, 3, 16, 20, 0, 0, time.UTC))
	if _, err := employee.presensi.CheckOut(ctx, id, nil); err != nil {
		t.Fatalf("checkout: %v", err)
	}

	got, err := employee.presensi.Get(ctx, id)
	if err != nil {
		t.Fatal(err)
	}
	p := got.Data
	if p.Status != model.StatusHadir {
		t.Errorf("status = %q, want hadir", p.Status)
	}
	if p.Lokasi == nil || p.Lokasi.Latitude != -6.2 || p.Lokasi.Longitude != 106.8 {
		t.Errorf("lokasi = %+v", p.Lokasi)
	}
	if hours := p.HoursWorked(); hours < 8.49 || hours > 8.51 {
		t.Errorf("HoursWorked = %v, want 8.5", hours)
	}

	admin := h.newClient(t)
	admin.login(t, "admin@x.id", "admin123")

	summary, err := admin.analytics.Summary(ctx)
	if err != nil {
		t.Fatalf("summary: %v", err)
	}
	if summary.Data.TotalUsers != 2 || summary.Data.TotalPresensi != 1 || summary.Data.Hadir != 1 {
		t.Errorf("summary = %+v", summary.Data)
	}
	if summary.Data.AttendanceRate != 100 {
		t.Errorf("AttendanceRate = %v, want 100", summary.Data.AttendanceRate)
	}

	monthly, err := admin.analytics.Monthly(ctx, "2025-03")
	if err != nil {
		t.Fatalf("monthly: %v", err)
	}
	if monthly.Data.WorkingDays != 21 || len(monthly.Data.Daily) != 1 || monthly.Data.Daily[0].Date != "2025-03-03" {
		t.Errorf("monthly = %+v", monthly.Data)
	}

	userStats, err := employee.analytics.User(ctx, budi.ID)
	if err != nil {
		t.Fatalf("user analytics: %v", err)
	}
	if userStats.Data.TotalPresensi != 1 || userStats.Data.Nama != "Budi" {
		t.Errorf("user analytics = %+v", userStats.Data)
	}
}

func TestLateCheckIn(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seed(t, "budi@x.id", "budi123", "Budi", model.RoleEmployee)
	h.at(time.Date(2025, 3, 3, 9, 5, 0, 0, time.UTC))

	c := h.newClient(t)
	c.login(t, "budi@x.id", "budi123")
	created, err := c.presensi.Create(ctx, model.CreatePresensiRequest{})
	if err != nil {
		t.Fatal(err)
	}
	if _, err := c.presensi.CheckIn(ctx, created.Data.ID, nil); err != nil {
		t.Fatal(err)
	}

	got, err := c.presensi.Get(ctx, created.Data.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Data.Status != model.StatusTerlambat {
		t.Errorf("status = %q, want terlambat", got.Data.Status)
	}
	if got.Data.Lokasi != nil {
		t.Errorf("lokasi = %+v, want nil", got.Data.Lokasi)
	}

	_, err = c.presensi.CheckIn(ctx, created.Data.ID, nil)
	if reqErr := requestError(t, err); reqErr.StatusCode != http.StatusBadRequest || reqErr.Message != "Sudah check-in" {
		t.Errorf("second checkin = %+v", reqErr)
	}
}

func TestCheckOutBeforeCheckIn(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seed(t, "budi@x.id", "budi123", "Budi", model.RoleEmployee)

	c := h.newClient(t)
	c.login(t, "budi@x.id", "budi123")
	created, err := c.presensi.Create(ctx, model.CreatePresensiRequest{})
	if err != nil {
		t.Fatal(err)
	}

	_, err = c.presensi.CheckOut(ctx, created.Data.ID, nil)
	if reqErr := requestError(t, err); reqErr.Message != "Belum check-in" {
		t.Errorf("message = %q", reqErr.Message)
	}
}

func TestInvalidTokenTearsDownSession(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)

	c := h.newClient(t)
	if err := c.session.Login(ctx, "not-a-jwt", model.User{ID: "ghost"}); err != nil {
		t.Fatal(err)
	}

	_, err := c.auth.Profile(ctx)
	if !errors.Is(err, api.ErrUnauthorized) {
		t.Fatalf("err = %v, want ErrUnauthorized", err)
	}
	if c.session.IsAuthenticated() {
		t.Error("session still authenticated after 401")
	}
	if len(c.navigated) != 1 || c.navigated[0] != api.LoginRoute {
		t.Errorf("navigated = %v", c.navigated)
	}
}

func TestDeactivatedUserIsRejected(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seed(t, "admin@x.id", "admin123", "Admin", model.RoleAdmin)
	budi := h.seed(t, "budi@x.id", "budi123", "Budi", model.RoleEmployee)

	employee := h.newClient(t)
	employee.login(t, "budi@x.id", "budi123")

	admin := h.newClient(t)
	admin.login(t, "admin@x.id", "admin123")
	if _, err := admin.users.UpdateStatus(ctx, budi.ID, false); err != nil {
		t.Fatalf("update status: %v", err)
	}

	if _, err := employee.auth.Profile(ctx); !errors.Is(err, api.ErrUnauthorized) {
		t.Errorf("profile err = %v, want ErrUnauthorized", err)
	}

	_, err := employee.auth.Login(ctx, model.LoginRequest{Email: "budi@x.id", Password: "budi123"})
	if reqErr := requestError(t, err); reqErr.StatusCode != http.StatusForbidden {
		t.Errorf("login status = %d, want 403", reqErr.StatusCode)
	}
}

func TestAdminOnlyRoutes(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seed(t, "budi@x.id", "budi123", "Budi", model.RoleEmployee)

	c := h.newClient(t)
	c.login(t, "budi@x.id", "budi123")

	_, err := c.users.List(ctx, 1, 10)
	reqErr := requestError(t, err)
	if reqErr.StatusCode != http.StatusForbidden || reqErr.Message != "Akses khusus admin" {
		t.Errorf("users list = %+v", reqErr)
	}

	_, err = c.analytics.StatusBreakdown(ctx)
	if reqErr := requestError(t, err); reqErr.StatusCode != http.StatusForbidden {
		t.Errorf("status breakdown = %d, want 403", reqErr.StatusCode)
	}
	if !c.session.IsAuthenticated() {
		t.Error("403 must not tear down the session")
	}
}

func TestListUsersPagination(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seed(t, "admin@x.id", "admin123", "Admin", model.RoleAdmin)
	h.seed(t, "a@x.id", "secret1", "A", model.RoleEmployee)
	h.seed(t, "b@x.id", "secret1", "B", model.RoleEmployee)

	c := h.newClient(t)
	c.login(t, "admin@x.id", "admin123")

	resp, err := c.users.List(ctx, 2, 2)
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Data) != 1 {
		t.Errorf("len(data) = %d, want 1", len(resp.Data))
	}
	if resp.Meta.Page != 2 || resp.Meta.Limit != 2 || resp.Meta.Total != 3 || resp.Meta.TotalPages != 2 {
		t.Errorf("meta = %+v", resp.Meta)
	}

	far, err := c.users.List(ctx, 1000000000000000000, 10)
	if err != nil {
		t.Fatalf("far page: %v", err)
	}
	if len(far.Data) != 0 || far.Meta.Total != 3 {
		t.Errorf("far page = %+v", far)
	}
}

func TestEmployeeSeesOnlyOwnPresensi(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seed(t, "a@x.id", "secret1", "A", model.RoleEmployee)
	b := h.seed(t, "b@x.id", "secret1", "B", model.RoleEmployee)

	ca := h.newClient(t)
	ca.login(t, "a@x.id", "secret1")
	cb := h.newClient(t)
	cb.login(t, "b@x.id", "secret1")

	if _, err := ca.presensi.Create(ctx, model.CreatePresensiRequest{}); err != nil {
		t.Fatal(err)
	}
	own, err := cb.presensi.Create(ctx, model.CreatePresensiRequest{Status: model.StatusIzin, Keterangan: "urusan keluarga"})
	if err != nil {
		t.Fatal(err)
	}

	list, err := cb.presensi.List(ctx, model.PresensiFilter{UserID: "someone-else"})
	if err != nil {
		t.Fatal(err)
	}
	if len(list.Data) != 1 || list.Data[0].ID != own.Data.ID || list.Data[0].UserID != b.ID {
		t.Errorf("list = %+v", list.Data)
	}

	byStatus, err := cb.presensi.List(ctx, model.PresensiFilter{Status: model.StatusHadir})
	if err != nil {
		t.Fatal(err)
	}
	if len(byStatus.Data) != 0 || byStatus.Meta.Total != 0 {
		t.Errorf("filtered list = %+v", byStatus)
	}

	if _, err := ca.presensi.Get(ctx, own.Data.ID); requestError(t, err).StatusCode != http.StatusNotFound {
		t.Errorf("foreign record err = %v", err)
	}
}

func TestDuplicatePresensiSameDay(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seed(t, "a@x.id", "secret1", "A", model.RoleEmployee)

	c := h.newClient(t)
	c.login(t, "a@x.id", "secret1")
	if _, err := c.presensi.Create(ctx, model.CreatePresensiRequest{}); err != nil {
		t.Fatal(err)
	}
	_, err := c.presensi.Create(ctx, model.CreatePresensiRequest{})
	if reqErr := requestError(t, err); reqErr.StatusCode != http.StatusConflict {
		t.Errorf("status = %d, want 409", reqErr.StatusCode)
	}
}

func TestRegisterAndChangePassword(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	c := h.newClient(t)

	reg, err := c.auth.Register(ctx, model.RegisterRequest{Email: "New@X.id", Password: "secret1", Nama: "Baru"})
	if err != nil {
		t.Fatalf("register: %v", err)
	}
	if reg.Data.Email != "new@x.id" || reg.Data.Role != string(model.RoleEmployee) {
		t.Errorf("registered = %+v", reg.Data)
	}

	_, err = c.auth.Register(ctx, model.RegisterRequest{Email: "new@x.id", Password: "secret1", Nama: "Lagi"})
	if reqErr := requestError(t, err); reqErr.StatusCode != http.StatusConflict {
		t.Errorf("duplicate register status = %d, want 409", reqErr.StatusCode)
	}

	c.login(t, "new@x.id", "secret1")

	_, err = c.auth.ChangePassword(ctx, model.ChangePasswordRequest{OldPassword: "wrong", NewPassword: "secret2"})
	if reqErr := requestError(t, err); reqErr.Message != "Password lama salah" {
		t.Errorf("message = %q", reqErr.Message)
	}
	if _, err := c.auth.ChangePassword(ctx, model.ChangePasswordRequest{OldPassword: "secret1", NewPassword: "secret2"}); err != nil {
		t.Fatalf("change password: %v", err)
	}

	c.login(t, "new@x.id", "secret2")
}

func TestAdminUpdatesAndDeletesPresensi(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seed(t, "admin@x.id", "admin123", "Admin", model.RoleAdmin)
	budi := h.seed(t, "budi@x.id", "budi123", "Budi", model.RoleEmployee)

	c := h.newClient(t)
	c.login(t, "admin@x.id", "admin123")

	created, err := c.presensi.Create(ctx, model.CreatePresensiRequest{UserID: budi.ID, Status: model.StatusAlpha})
	if err != nil {
		t.Fatal(err)
	}
	if created.Data.UserID != budi.ID || created.Data.Nama != "Budi" {
		t.Errorf("created = %+v", created.Data)
	}

	note := "surat dokter"
	updated, err := c.presensi.Update(ctx, created.Data.ID, model.UpdatePresensiRequest{Status: model.StatusSakit, Keterangan: &note})
	if err != nil {
		t.Fatal(err)
	}
	if updated.Data.Status != model.StatusSakit || updated.Data.Keterangan != note {
		t.Errorf("updated = %+v", updated.Data)
	}

	_, err = c.presensi.Update(ctx, created.Data.ID, model.UpdatePresensiRequest{Status: "libur"})
	if reqErr := requestError(t, err); reqErr.StatusCode != http.StatusBadRequest {
		t.Errorf("invalid status code = %d, want 400", reqErr.StatusCode)
	}

	if _, err := c.presensi.Delete(ctx, created.Data.ID); err != nil {
		t.Fatal(err)
	}
	_, err = c.presensi.Get(ctx, created.Data.ID)
	if reqErr := requestError(t, err); reqErr.StatusCode != http.StatusNotFound {
		t.Errorf("get after delete = %d, want 404", reqErr.StatusCode)
	}
}

func TestCheckInKeepsLeaveStatus(t *testing.T) {
	ctx := context.Background()
	h := newHarness(t)
	h.seed(t, "admin@x.id", "admin123", "Admin", model.RoleAdmin)
	budi := h.seed(t, "budi@x.id", "budi123", "Budi", model.RoleEmployee)
	h.at(time.Date(2025, 3, 3, 9, 30, 0, 0, time.UTC))

	admin := h.newClient(t)
	admin.login(t, "admin@x.id", "admin123")
	created, err := admin.presensi.Create(ctx, model.CreatePresensiRequest{UserID: budi.ID, Status: model.StatusIzin})
	if err != nil {
		t.Fatal(err)
	}

	employee := h.newClient(t)
	employee.login(t, "budi@x.id", "budi123")
	if _, err := employee.presensi.CheckIn(ctx, created.Data.ID, nil); err != nil {
		t.Fatalf("checkin: %v", err)
	}

	got, err := employee.presensi.Get(ctx, created.Data.ID)
	if err != nil {
		t.Fatal(err)
	}
	if got.Data.Status != model.StatusIzin {
		t.Errorf("status = %q, want izin", got.Data.Status)
	}
	if got.Data.JamMasuk == nil {
		t.Error("check-in time not recorded")
	}
}
