package usecase

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"cinema-kiosk/internal/data/entity"
	"cinema-kiosk/internal/data/repository"
	"cinema-kiosk/pkg/events"

	"github.com/google/uuid"
)

// fakeStore is an in-memory stand-in for the Postgres repositories. WithinTx
// serialises transactions and restores a snapshot when fn fails.
type fakeStore struct {
	txMu sync.Mutex
	mu   sync.Mutex

	movies     map[uuid.UUID]*entity.Movie
	tickets    map[int64]*entity.Ticket
	payments   map[int64]*entity.Payment
	seats      []*entity.ReservedSeat
	nextTicket int64

	// hiddenReads makes the next N ActiveByShowing calls return nothing,
	// simulating a claim that committed after the pre-check.
	hiddenReads int
}

func newFakeStore() *fakeStore {
	return &fakeStore{
		movies:   map[uuid.UUID]*entity.Movie{},
		tickets:  map[int64]*entity.Ticket{},
		payments: map[int64]*entity.Payment{},
	}
}

func (s *fakeStore) repository() *repository.Repository {
	return &repository.Repository{
		Tx:      fakeTx{s},
		Movie:   fakeMovies{s},
		Ticket:  fakeTickets{s},
		Payment: fakePayments{s},
		Seat:    fakeSeats{s},
		Sales:   fakeSales{s},
	}
}

type snapshot struct {
	movies     map[uuid.UUID]entity.Movie
	tickets    map[int64]entity.Ticket
	payments   map[int64]entity.Payment
	seats      []entity.ReservedSeat
	nextTicket int64
}

func (s *fakeStore) snapshot() snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()

	snap := snapshot{
		movies:     map[uuid.UUID]entity.Movie{},
		tickets:    map[int64]entity.Ticket{},
		payments:   map[int64]entity.Payment{},
		nextTicket: s.nextTicket,
	}
	for k, v := range s.movies {
		snap.movies[k] = *v
	}
	for k, v := range s.tickets {
		snap.tickets[k] = *v
	}
	for k, v := range s.payments {
		snap.payments[k] = *v
	}
	for _, seat := range s.seats {
		snap.seats = append(snap.seats, *seat)
	}
	return snap
}

func (s *fakeStore) restore(snap snapshot) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.movies = map[uuid.UUID]*entity.Movie{}
	for k, v := range snap.movies {
		v := v
		s.movies[k] = &v
	}
	s.tickets = map[int64]*entity.Ticket{}
	for k, v := range snap.tickets {
		v := v
		s.tickets[k] = &v
	}
	s.payments = map[int64]*entity.Payment{}
	for k, v := range snap.payments {
		v := v
		s.payments[k] = &v
	}
	s.seats = nil
	for _, seat := range snap.seats {
		seat := seat
		s.seats = append(s.seats, &seat)
	}
	s.nextTicket = snap.nextTicket
}

// --- Transactor ---

type fakeTx struct{ s *fakeStore }

type fakeTxKey struct{}

func (t fakeTx) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	if ctx.Value(fakeTxKey{}) != nil {
		return fn(ctx)
	}

	t.s.txMu.Lock()
	defer t.s.txMu.Unlock()

	snap := t.s.snapshot()
	if err := fn(context.WithValue(ctx, fakeTxKey{}, true)); err != nil {
		t.s.restore(snap)
		return err
	}
	return nil
}

// --- Movies ---

type fakeMovies struct{ s *fakeStore }

func (f fakeMovies) Create(_ context.Context, movie *entity.Movie) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	for _, m := range f.s.movies {
		if m.DeletedAt == nil && m.Slug == movie.Slug {
			return repository.ErrDuplicateSlug
		}
	}
	cp := *movie
	f.s.movies[movie.ID] = &cp
	return nil
}

func (f fakeMovies) FindByID(_ context.Context, id uuid.UUID) (*entity.Movie, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	m, ok := f.s.movies[id]
	if !ok || m.DeletedAt != nil {
		return nil, nil
	}
	cp := *m
	return &cp, nil
}

func (f fakeMovies) FindBySlug(_ context.Context, slug string) (*entity.Movie, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	for _, m := range f.s.movies {
		if m.DeletedAt == nil && m.Slug == slug {
			cp := *m
			return &cp, nil
		}
	}
	return nil, nil
}

func (f fakeMovies) FindAll(_ context.Context) ([]*entity.Movie, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	movies := []*entity.Movie{}
	for _, m := range f.s.movies {
		if m.DeletedAt == nil {
			cp := *m
			movies = append(movies, &cp)
		}
	}
	sort.Slice(movies, func(i, j int) bool { return movies[i].Title < movies[j].Title })
	return movies, nil
}

func (f fakeMovies) Update(_ context.Context, movie *entity.Movie) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	current, ok := f.s.movies[movie.ID]
	if !ok || current.DeletedAt != nil {
		return repository.ErrNotFound
	}
	for id, m := range f.s.movies {
		if id != movie.ID && m.DeletedAt == nil && m.Slug == movie.Slug {
			return repository.ErrDuplicateSlug
		}
	}
	cp := *movie
	f.s.movies[movie.ID] = &cp
	return nil
}

func (f fakeMovies) Delete(_ context.Context, id uuid.UUID, at time.Time) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	m, ok := f.s.movies[id]
	if !ok || m.DeletedAt != nil {
		return repository.ErrNotFound
	}
	m.DeletedAt = &at
	return nil
}

func (f fakeMovies) HasTickets(_ context.Context, id uuid.UUID) (bool, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	for _, t := range f.s.tickets {
		if t.MovieID == id {
			return true, nil
		}
	}
	return false, nil
}

// --- Tickets ---

type fakeTickets struct{ s *fakeStore }

func (f fakeTickets) Create(_ context.Context, ticket *entity.Ticket) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	if ticket.IdempotencyKey != nil {
		for _, t := range f.s.tickets {
			if t.IdempotencyKey != nil && *t.IdempotencyKey == *ticket.IdempotencyKey {
				return repository.ErrDuplicateIdempotencyKey
			}
		}
	}
	f.s.nextTicket++
	ticket.ID = f.s.nextTicket
	cp := *ticket
	f.s.tickets[ticket.ID] = &cp
	return nil
}

func (f fakeTickets) FindByID(_ context.Context, id int64) (*entity.Ticket, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	t, ok := f.s.tickets[id]
	if !ok {
		return nil, nil
	}
	cp := *t
	return &cp, nil
}

func (f fakeTickets) FindByIdempotencyKey(_ context.Context, key string) (*entity.Ticket, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	for _, t := range f.s.tickets {
		if t.IdempotencyKey != nil && *t.IdempotencyKey == key {
			cp := *t
			return &cp, nil
		}
	}
	return nil, nil
}

func (f fakeTickets) reservation(id int64) *entity.Reservation {
	t, ok := f.s.tickets[id]
	if !ok {
		return nil
	}
	p, ok := f.s.payments[id]
	if !ok {
		return nil
	}
	var seats []string
	for _, seat := range f.s.seats {
		if seat.TicketID == id {
			seats = append(seats, seat.SeatNumber)
		}
	}
	if len(seats) == 0 {
		return nil
	}
	sort.Slice(seats, func(i, j int) bool {
		if seats[i][0] != seats[j][0] {
			return seats[i][0] < seats[j][0]
		}
		if len(seats[i]) != len(seats[j]) {
			return len(seats[i]) < len(seats[j])
		}
		return seats[i] < seats[j]
	})

	res := &entity.Reservation{Ticket: *t, Payment: *p, Seats: seats}
	if m, ok := f.s.movies[t.MovieID]; ok {
		res.MovieSlug = m.Slug
		res.MovieTitle = m.Title
	}
	return res
}

func (f fakeTickets) FindReservation(_ context.Context, id int64) (*entity.Reservation, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return f.reservation(id), nil
}

func (f fakeTickets) completeIDs() []int64 {
	var ids []int64
	for id := range f.s.tickets {
		if f.reservation(id) != nil {
			ids = append(ids, id)
		}
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] > ids[j] })
	return ids
}

func (f fakeTickets) FindAllReservations(_ context.Context, limit, offset int) ([]*entity.Reservation, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	ids := f.completeIDs()
	result := []*entity.Reservation{}
	for i := offset; i < len(ids) && len(result) < limit; i++ {
		result = append(result, f.reservation(ids[i]))
	}
	return result, nil
}

func (f fakeTickets) CountReservations(_ context.Context) (int64, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()
	return int64(len(f.completeIDs())), nil
}

// --- Payments ---

type fakePayments struct{ s *fakeStore }

func (f fakePayments) Create(_ context.Context, payment *entity.Payment) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	if _, exists := f.s.payments[payment.TicketID]; exists {
		return fmt.Errorf("payment for ticket %d already exists", payment.TicketID)
	}
	cp := *payment
	f.s.payments[payment.TicketID] = &cp
	return nil
}

func (f fakePayments) FindByTicketID(_ context.Context, ticketID int64) (*entity.Payment, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	p, ok := f.s.payments[ticketID]
	if !ok {
		return nil, nil
	}
	cp := *p
	return &cp, nil
}

func (f fakePayments) UpdateStatusIfPending(_ context.Context, ticketID int64, status entity.PaymentStatus, at time.Time) (*entity.Payment, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	p, ok := f.s.payments[ticketID]
	if !ok || p.Status != entity.PaymentPending {
		return nil, nil
	}
	p.Status = status
	p.UpdatedAt = at
	cp := *p
	return &cp, nil
}

func (f fakePayments) ExpireHolds(_ context.Context, cutoff, at time.Time, scope *repository.ShowingScope) ([]entity.ExpiredHold, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	var ids []int64
	for id := range f.s.tickets {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })

	var expired []entity.ExpiredHold
	for _, id := range ids {
		t := f.s.tickets[id]
		p, ok := f.s.payments[id]
		if !ok || p.Status != entity.PaymentPending || t.Platform != entity.PlatformKiosk || t.CreatedAt.After(cutoff) {
			continue
		}
		if scope != nil && (t.MovieID != scope.MovieID || t.DayOfWeek != scope.DayOfWeek || t.WeekNumber != scope.WeekNumber) {
			continue
		}

		p.Status = entity.PaymentCancelled
		p.UpdatedAt = at

		hold := entity.ExpiredHold{TicketID: id, MovieID: t.MovieID, DayOfWeek: t.DayOfWeek, WeekNumber: t.WeekNumber, Seats: []string{}}
		for _, seat := range f.s.seats {
			if seat.TicketID == id && seat.Active {
				seat.Active = false
				hold.Seats = append(hold.Seats, seat.SeatNumber)
			}
		}
		expired = append(expired, hold)
	}
	return expired, nil
}

// --- Seats ---

type fakeSeats struct{ s *fakeStore }

func (f fakeSeats) Create(_ context.Context, seat *entity.ReservedSeat) error {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	for _, existing := range f.s.seats {
		if existing.TicketID == seat.TicketID && existing.SeatNumber == seat.SeatNumber {
			return fmt.Errorf("duplicate seat %s on ticket %d", seat.SeatNumber, seat.TicketID)
		}
		if existing.Active && seat.Active &&
			existing.MovieID == seat.MovieID &&
			existing.DayOfWeek == seat.DayOfWeek &&
			existing.WeekNumber == seat.WeekNumber &&
			existing.SeatNumber == seat.SeatNumber {
			return fmt.Errorf("reserve seat %s: %w", seat.SeatNumber, repository.ErrSeatTaken)
		}
	}
	cp := *seat
	f.s.seats = append(f.s.seats, &cp)
	return nil
}

func (f fakeSeats) CreateAll(ctx context.Context, seats []entity.ReservedSeat) error {
	for i := range seats {
		if err := f.Create(ctx, &seats[i]); err != nil {
			return err
		}
	}
	return nil
}

func (f fakeSeats) ActiveByShowing(_ context.Context, scope repository.ShowingScope, holdCutoff time.Time) ([]entity.SeatClaim, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	if f.s.hiddenReads > 0 {
		f.s.hiddenReads--
		return nil, nil
	}

	var claims []entity.SeatClaim
	for _, seat := range f.s.seats {
		if !seat.Active || seat.MovieID != scope.MovieID || seat.DayOfWeek != scope.DayOfWeek || seat.WeekNumber != scope.WeekNumber {
			continue
		}
		p, ok := f.s.payments[seat.TicketID]
		if !ok || !p.Status.HoldsSeat() {
			continue
		}
		t := f.s.tickets[seat.TicketID]
		if p.Status == entity.PaymentPending && t.Platform == entity.PlatformKiosk && !t.CreatedAt.After(holdCutoff) {
			continue
		}
		claims = append(claims, entity.SeatClaim{SeatNumber: seat.SeatNumber, TicketID: seat.TicketID, Status: p.Status})
	}
	return claims, nil
}

func (f fakeSeats) Release(_ context.Context, ticketID int64) ([]string, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	var released []string
	for _, seat := range f.s.seats {
		if seat.TicketID == ticketID && seat.Active {
			seat.Active = false
			released = append(released, seat.SeatNumber)
		}
	}
	return released, nil
}

// --- Sales ---

type fakeSales struct{ s *fakeStore }

func (f fakeSales) PaidByShowing(_ context.Context, from, to time.Time) ([]entity.SalesRow, error) {
	f.s.mu.Lock()
	defer f.s.mu.Unlock()

	type key struct{ day, week string }
	grouped := map[key]*entity.SalesRow{}
	for id, t := range f.s.tickets {
		p, ok := f.s.payments[id]
		if !ok || p.Status != entity.PaymentPaid || t.CreatedAt.Before(from) || !t.CreatedAt.Before(to) {
			continue
		}
		k := key{t.DayOfWeek, t.WeekNumber}
		row, ok := grouped[k]
		if !ok {
			row = &entity.SalesRow{DayOfWeek: t.DayOfWeek, WeekNumber: t.WeekNumber}
			grouped[k] = row
		}
		row.Tickets++
		row.Revenue += p.Amount
		for _, seat := range f.s.seats {
			if seat.TicketID == id {
				row.Seats++
			}
		}
	}

	var rows []entity.SalesRow
	for _, row := range grouped {
		rows = append(rows, *row)
	}
	return rows, nil
}

// --- Collaborators ---

type recordingPublisher struct {
	mu     sync.Mutex
	events []events.SeatStatusChanged
}

func (p *recordingPublisher) PublishSeatStatus(_ context.Context, e events.SeatStatusChanged) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, e)
	return nil
}

func (p *recordingPublisher) Close() error { return nil }

func (p *recordingPublisher) byStatus(status string) []events.SeatStatusChanged {
	p.mu.Lock()
	defer p.mu.Unlock()

	var out []events.SeatStatusChanged
	for _, e := range p.events {
		if e.Status == status {
			out = append(out, e)
		}
	}
	return out
}
