package bot

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/go-telegram/bot"
	"github.com/go-telegram/bot/models"

	"github.com/rewardly/taskbot/internal/config"
	domainErrors "github.com/rewardly/taskbot/internal/domain/errors"
	"github.com/rewardly/taskbot/internal/domain/model"
)

// facadeStub overrides only the methods a test exercises; untouched calls
// panic through the embedded nil interface.
type facadeStub struct {
	Facade

	RegisterFn           func(ctx context.Context, id int64, username string, referrerID *int64) (*model.User, bool, error)
	ProfileFn            func(ctx context.Context, id int64) (*model.User, error)
	ConfirmMembershipFn  func(ctx context.Context, id int64) (bool, *model.JoinBonus, error)
	SetPayoutIDFn        func(ctx context.Context, id int64, payoutID string) error
	SubmitTaskFn         func(ctx context.Context, userID, taskID int64, response string) (*model.Task, error)
	RequestWithdrawalFn  func(ctx context.Context, userID, amount int64) (*model.Withdrawal, error)
	CreateTaskFn         func(ctx context.Context, title, description string, reward int64, question string) (*model.Task, error)
	ReferralsFn          func(ctx context.Context, id int64) ([]model.User, error)
	CompletedTasksFn     func(ctx context.Context, userID int64) ([]model.Task, error)
	UsersFn              func(ctx context.Context) ([]model.User, error)
	UserCountFn          func(ctx context.Context) (int64, error)
	NotifyFn             func(ctx context.Context, chatID int64, text string) error
	NotifyAdminsMarkupFn func(ctx context.Context, text string, markup models.ReplyMarkup)
}

func (f *facadeStub) Register(ctx context.Context, id int64, username string, referrerID *int64) (*model.User, bool, error) {
	return f.RegisterFn(ctx, id, username, referrerID)
}

func (f *facadeStub) Profile(ctx context.Context, id int64) (*model.User, error) {
	return f.ProfileFn(ctx, id)
}

func (f *facadeStub) ConfirmMembership(ctx context.Context, id int64) (bool, *model.JoinBonus, error) {
	return f.ConfirmMembershipFn(ctx, id)
}

func (f *facadeStub) SetPayoutID(ctx context.Context, id int64, payoutID string) error {
	return f.SetPayoutIDFn(ctx, id, payoutID)
}

func (f *facadeStub) SubmitTask(ctx context.Context, userID, taskID int64, response string) (*model.Task, error) {
	return f.SubmitTaskFn(ctx, userID, taskID, response)
}

func (f *facadeStub) RequestWithdrawal(ctx context.Context, userID, amount int64) (*model.Withdrawal, error) {
	return f.RequestWithdrawalFn(ctx, userID, amount)
}

func (f *facadeStub) CreateTask(ctx context.Context, title, description string, reward int64, question string) (*model.Task, error) {
	return f.CreateTaskFn(ctx, title, description, reward, question)
}

func (f *facadeStub) Referrals(ctx context.Context, id int64) ([]model.User, error) {
	return f.ReferralsFn(ctx, id)
}

func (f *facadeStub) CompletedTasks(ctx context.Context, userID int64) ([]model.Task, error) {
	return f.CompletedTasksFn(ctx, userID)
}

func (f *facadeStub) Users(ctx context.Context) ([]model.User, error) {
	return f.UsersFn(ctx)
}

func (f *facadeStub) UserCount(ctx context.Context) (int64, error) {
	return f.UserCountFn(ctx)
}

func (f *facadeStub) Notify(ctx context.Context, chatID int64, text string) error {
	if f.NotifyFn != nil {
		return f.NotifyFn(ctx, chatID, text)
	}
	return nil
}

func (f *facadeStub) NotifyAdminsMarkup(ctx context.Context, text string, markup models.ReplyMarkup) {
	if f.NotifyAdminsMarkupFn != nil {
		f.NotifyAdminsMarkupFn(ctx, text, markup)
	}
}

type recheckerStub struct {
	mu        sync.Mutex
	Scheduled []int64
}

func (r *recheckerStub) Schedule(userID int64) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.Scheduled = append(r.Scheduled, userID)
	return true
}

// apiCall is one outgoing Telegram API request captured by the test server.
type apiCall struct {
	Method string
	Body   map[string]any
}

type apiCapture struct {
	mu    sync.Mutex
	calls []apiCall
}

func (c *apiCapture) record(call apiCall) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.calls = append(c.calls, call)
}

func (c *apiCapture) byMethod(method string) []apiCall {
	c.mu.Lock()
	defer c.mu.Unlock()
	var out []apiCall
	for _, call := range c.calls {
		if call.Method == method {
			out = append(out, call)
		}
	}
	return out
}

func newTestHandler(t *testing.T, facade Facade, cfg *config.Config) (*Handler, *apiCapture) {
	t.Helper()

	capture := &apiCapture{}
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		method := r.URL.Path[strings.LastIndex(r.URL.Path, "/")+1:]
		body := map[string]any{}
		contentType := r.Header.Get("Content-Type")
		switch {
		case strings.Contains(contentType, "multipart/form-data"):
			if err := r.ParseMultipartForm(1 << 20); err == nil {
				for key, values := range r.MultipartForm.Value {
					if len(values) > 0 {
						body[key] = values[0]
					}
				}
			}
		default:
			raw, _ := io.ReadAll(r.Body)
			if len(raw) > 0 && strings.Contains(contentType, "json") {
				_ = json.Unmarshal(raw, &body)
			}
		}
		capture.record(apiCall{Method: method, Body: body})

		w.Header().Set("Content-Type", "application/json")
		switch method {
		case "sendMessage":
			_, _ = w.Write([]byte(`{"ok":true,"result":{"message_id":1,"chat":{"id":1}}}`))
		case "getMe":
			_, _ = w.Write([]byte(`{"ok":true,"result":{"id":99,"is_bot":true,"username":"rewardsbot"}}`))
		default:
			_, _ = w.Write([]byte(`{"ok":true,"result":true}`))
		}
	}))
	t.Cleanup(srv.Close)

	b, err := bot.New("test-token",
		bot.WithSkipGetMe(),
		bot.WithServerURL(srv.URL),
	)
	if err != nil {
		t.Fatalf("create bot: %v", err)
	}

	if cfg == nil {
		cfg = &config.Config{ChannelID: "@rewards"}
	}
	h := New(Deps{
		Bot:       b,
		Cfg:       cfg,
		Facade:    facade,
		Sessions:  NewSessionStore(),
		Rechecker: &recheckerStub{},
		Logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
	})
	return h, capture
}

func messageUpdate(userID, chatID int64, text string) *models.Update {
	return &models.Update{
		Message: &models.Message{
			From: &models.User{ID: userID, Username: "alice"},
			Chat: models.Chat{ID: chatID},
			Text: text,
		},
	}
}

func callbackUpdate(userID, chatID int64, data string) *models.Update {
	return &models.Update{
		CallbackQuery: &models.CallbackQuery{
			ID:   "cb-1",
			From: models.User{ID: userID, Username: "alice"},
			Message: models.MaybeInaccessibleMessage{
				Message: &models.Message{Chat: models.Chat{ID: chatID}},
			},
			Data: data,
		},
	}
}

func TestHandleStartShowsJoinPromptForNonMembers(t *testing.T) {
	facade := &facadeStub{
		RegisterFn: func(ctx context.Context, id int64, username string, referrerID *int64) (*model.User, bool, error) {
			if referrerID == nil || *referrerID != 42 {
				t.Fatalf("expected referrer 42, got %v", referrerID)
			}
			return &model.User{ID: id, Username: username}, true, nil
		},
		ConfirmMembershipFn: func(ctx context.Context, id int64) (bool, *model.JoinBonus, error) {
			return false, nil, domainErrors.ErrNotMember
		},
	}
	h, capture := newTestHandler(t, facade, nil)

	h.handleStart(context.Background(), h.bot, messageUpdate(1, 1, "/start 42"))

	sent := capture.byMethod("sendMessage")
	if len(sent) != 1 {
		t.Fatalf("expected one message, got %d", len(sent))
	}
	markup, _ := json.Marshal(sent[0].Body["reply_markup"])
	if !strings.Contains(string(markup), "joined") {
		t.Fatalf("expected join button in markup, got %s", markup)
	}

	rechecker := h.rechecker.(*recheckerStub)
	rechecker.mu.Lock()
	defer rechecker.mu.Unlock()
	if len(rechecker.Scheduled) != 1 || rechecker.Scheduled[0] != 1 {
		t.Fatalf("expected deferred recheck for user 1, got %v", rechecker.Scheduled)
	}
}

func TestHandleStartNotifiesReferrerOnSignup(t *testing.T) {
	var notified []string
	var notifiedChat int64
	referrer := int64(42)
	facade := &facadeStub{
		RegisterFn: func(ctx context.Context, id int64, username string, referrerID *int64) (*model.User, bool, error) {
			return &model.User{ID: id, Username: username, ReferrerID: &referrer}, true, nil
		},
		ConfirmMembershipFn: func(ctx context.Context, id int64) (bool, *model.JoinBonus, error) {
			return false, nil, domainErrors.ErrNotMember
		},
		NotifyFn: func(ctx context.Context, chatID int64, text string) error {
			notifiedChat = chatID
			notified = append(notified, text)
			return nil
		},
	}
	h, _ := newTestHandler(t, facade, nil)

	h.handleStart(context.Background(), h.bot, messageUpdate(1, 1, "/start 42"))

	if len(notified) != 1 || notifiedChat != 42 {
		t.Fatalf("expected one referrer notification to 42, got %v to %d", notified, notifiedChat)
	}
	if !strings.Contains(notified[0], "referral link") {
		t.Fatalf("unexpected notification text: %q", notified[0])
	}
}

func TestHandleStartSkipsSignupNoticeForKnownUsers(t *testing.T) {
	referrer := int64(42)
	facade := &facadeStub{
		RegisterFn: func(ctx context.Context, id int64, username string, referrerID *int64) (*model.User, bool, error) {
			return &model.User{ID: id, Username: username, ReferrerID: &referrer}, false, nil
		},
		ConfirmMembershipFn: func(ctx context.Context, id int64) (bool, *model.JoinBonus, error) {
			return false, nil, domainErrors.ErrNotMember
		},
		NotifyFn: func(ctx context.Context, chatID int64, text string) error {
			t.Fatalf("unexpected notification to %d: %q", chatID, text)
			return nil
		},
	}
	h, _ := newTestHandler(t, facade, nil)

	h.handleStart(context.Background(), h.bot, messageUpdate(1, 1, "/start"))
}

func TestHandleStartSendsMenuToMembers(t *testing.T) {
	facade := &facadeStub{
		RegisterFn: func(ctx context.Context, id int64, username string, referrerID *int64) (*model.User, bool, error) {
			return &model.User{ID: id, Username: username}, false, nil
		},
		ConfirmMembershipFn: func(ctx context.Context, id int64) (bool, *model.JoinBonus, error) {
			return false, nil, nil
		},
		ProfileFn: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, Balance: 120}, nil
		},
	}
	h, capture := newTestHandler(t, facade, nil)

	h.handleStart(context.Background(), h.bot, messageUpdate(1, 1, "/start"))

	sent := capture.byMethod("sendMessage")
	if len(sent) != 1 {
		t.Fatalf("expected one message, got %d", len(sent))
	}
	if text, _ := sent[0].Body["text"].(string); !strings.Contains(text, "120") {
		t.Fatalf("expected balance in menu text, got %q", text)
	}
}

func TestHandleTextSubmitsTaskResponse(t *testing.T) {
	var gotResponse string
	var reviewed bool
	facade := &facadeStub{
		SubmitTaskFn: func(ctx context.Context, userID, taskID int64, response string) (*model.Task, error) {
			gotResponse = response
			return &model.Task{ID: taskID, Title: "Review us", Reward: 50, Question: "Link?"}, nil
		},
		NotifyAdminsMarkupFn: func(ctx context.Context, text string, markup models.ReplyMarkup) {
			reviewed = true
			if !strings.Contains(text, "my answer") {
				t.Fatalf("expected response in review text, got %q", text)
			}
		},
	}
	h, _ := newTestHandler(t, facade, nil)
	h.sessions.AwaitResponse(1, 5)

	h.handleText(context.Background(), h.bot, messageUpdate(1, 1, "my answer"))

	if gotResponse != "my answer" {
		t.Fatalf("unexpected submitted response %q", gotResponse)
	}
	if !reviewed {
		t.Fatal("expected admin review notification")
	}
	if got := h.sessions.Get(1); got.State != stateIdle {
		t.Fatalf("expected session cleared, got %v", got.State)
	}
}

func TestHandleTextSavesPayoutID(t *testing.T) {
	var saved string
	facade := &facadeStub{
		SetPayoutIDFn: func(ctx context.Context, id int64, payoutID string) error {
			saved = payoutID
			return nil
		},
	}
	h, _ := newTestHandler(t, facade, nil)
	h.sessions.AwaitPayoutID(1)

	h.handleText(context.Background(), h.bot, messageUpdate(1, 1, "WALLET-123"))

	if saved != "WALLET-123" {
		t.Fatalf("unexpected payout id %q", saved)
	}
	if got := h.sessions.Get(1); got.State != stateIdle {
		t.Fatalf("expected session cleared, got %v", got.State)
	}
}

func TestHandleTextWithdrawAmount(t *testing.T) {
	requested := int64(0)
	facade := &facadeStub{
		RequestWithdrawalFn: func(ctx context.Context, userID, amount int64) (*model.Withdrawal, error) {
			requested = amount
			return &model.Withdrawal{ID: 3, UserID: userID, Amount: amount, PayoutID: "W", Status: model.WithdrawalStatusPending}, nil
		},
	}
	h, capture := newTestHandler(t, facade, nil)
	h.sessions.AwaitWithdrawAmount(1)

	h.handleText(context.Background(), h.bot, messageUpdate(1, 1, "not a number"))
	if requested != 0 {
		t.Fatal("expected no request for invalid amount")
	}
	if got := h.sessions.Get(1); got.State != stateAwaitingWithdrawAmount {
		t.Fatalf("expected session kept for retry, got %v", got.State)
	}

	h.handleText(context.Background(), h.bot, messageUpdate(1, 1, "250"))
	if requested != 250 {
		t.Fatalf("unexpected requested amount %d", requested)
	}
	if len(capture.byMethod("sendMessage")) != 2 {
		t.Fatalf("expected retry hint plus confirmation, got %d messages", len(capture.byMethod("sendMessage")))
	}
}

func TestHandleTextIgnoresCommandsAndEmpty(t *testing.T) {
	h, capture := newTestHandler(t, &facadeStub{}, nil)
	h.sessions.AwaitPayoutID(1)

	h.handleText(context.Background(), h.bot, messageUpdate(1, 1, "/start"))
	h.handleText(context.Background(), h.bot, messageUpdate(1, 1, "   "))

	if len(capture.byMethod("sendMessage")) != 0 {
		t.Fatal("expected no replies")
	}
}

func TestAdminCommandsIgnoreNonAdmins(t *testing.T) {
	facade := &facadeStub{
		CreateTaskFn: func(ctx context.Context, title, description string, reward int64, question string) (*model.Task, error) {
			t.Fatal("unexpected create call")
			return nil, nil
		},
	}
	cfg := &config.Config{ChannelID: "@rewards", AdminIDs: []int64{99}}
	h, capture := newTestHandler(t, facade, cfg)

	h.handleAddTask(context.Background(), h.bot, messageUpdate(1, 1, "/add_task A | B | 10 | C"))

	if len(capture.byMethod("sendMessage")) != 0 {
		t.Fatal("expected silence for non-admin")
	}
}

func TestHandleStatsListsUsersWithBalances(t *testing.T) {
	facade := &facadeStub{
		UserCountFn: func(ctx context.Context) (int64, error) { return 2, nil },
		UsersFn: func(ctx context.Context) ([]model.User, error) {
			return []model.User{
				{ID: 5, Username: "alice", Balance: 120},
				{ID: 6, Balance: 0},
			}, nil
		},
	}
	cfg := &config.Config{ChannelID: "@rewards", AdminIDs: []int64{1}}
	h, capture := newTestHandler(t, facade, cfg)

	h.handleStats(context.Background(), h.bot, messageUpdate(1, 1, "/stats"))

	sent := capture.byMethod("sendMessage")
	if len(sent) != 1 {
		t.Fatalf("expected one message, got %d", len(sent))
	}
	text, _ := sent[0].Body["text"].(string)
	if !strings.Contains(text, "Registered users: 2") {
		t.Fatalf("expected total count, got %q", text)
	}
	if !strings.Contains(text, "#5 @alice: 120 pts") {
		t.Fatalf("expected per-user balance line, got %q", text)
	}
	if !strings.Contains(text, "#6 6: 0 pts") {
		t.Fatalf("expected numeric fallback for missing username, got %q", text)
	}
}

func TestHandleMenuReferralsListsInvitees(t *testing.T) {
	facade := &facadeStub{
		ReferralsFn: func(ctx context.Context, id int64) ([]model.User, error) {
			return []model.User{{ID: 8, Username: "bob"}, {ID: 9, Username: "carol"}}, nil
		},
		CompletedTasksFn: func(ctx context.Context, userID int64) ([]model.Task, error) {
			if userID == 8 {
				return []model.Task{{ID: 1}, {ID: 2}}, nil
			}
			return nil, nil
		},
	}
	cfg := &config.Config{ChannelID: "@rewards", ReferralPercent: 10}
	h, capture := newTestHandler(t, facade, cfg)

	h.handleMenuReferrals(context.Background(), h.bot, callbackUpdate(1, 1, "menu_referrals"))

	sent := capture.byMethod("sendMessage")
	if len(sent) != 1 {
		t.Fatalf("expected one message, got %d", len(sent))
	}
	text, _ := sent[0].Body["text"].(string)
	if !strings.Contains(text, "You invited 2 user(s).") {
		t.Fatalf("expected invite count, got %q", text)
	}
	if !strings.Contains(text, "@bob: 2 task(s) completed") {
		t.Fatalf("expected per-referral completion count, got %q", text)
	}
	if !strings.Contains(text, "@carol: 0 task(s) completed") {
		t.Fatalf("expected zero-completion line, got %q", text)
	}
}

func TestHandleAddTask(t *testing.T) {
	facade := &facadeStub{
		CreateTaskFn: func(ctx context.Context, title, description string, reward int64, question string) (*model.Task, error) {
			if title != "Review us" || reward != 50 {
				t.Fatalf("unexpected task fields: %q %d", title, reward)
			}
			return &model.Task{ID: 7, Title: title, Description: description, Reward: reward, Question: question}, nil
		},
	}
	cfg := &config.Config{ChannelID: "@rewards", AdminIDs: []int64{1}}
	h, capture := newTestHandler(t, facade, cfg)

	h.handleAddTask(context.Background(), h.bot, messageUpdate(1, 1, "/add_task Review us | Leave a review | 50 | Link?"))

	sent := capture.byMethod("sendMessage")
	if len(sent) != 1 {
		t.Fatalf("expected confirmation, got %d messages", len(sent))
	}
	if text, _ := sent[0].Body["text"].(string); !strings.Contains(text, "#7") {
		t.Fatalf("expected task id in confirmation, got %q", text)
	}
}
