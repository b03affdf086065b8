package httpclient_test

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"testing"

	"github.com/kbukum/reqkit/httpclient"
	"github.com/kbukum/reqkit/testutil"
)

type event struct {
	ID         int `json:"id"`
	HomeTeamID int `json:"home_team_id"`
	AwayTeamID int `json:"away_team_id"`
}

type eventDetails struct {
	Event event
	Home  team
	Away  team
}

// eventWithTeams loads an event, then the team list, and picks both of the
// event's teams out of it.
func eventWithTeams(id int) httpclient.ComposedFunc[eventDetails] {
	return func(ctx context.Context, c *httpclient.Client) (eventDetails, error) {
		ev, err := httpclient.Send[event](ctx, c, httpclient.NewEndpoint[event](httpclient.MethodGet,
			httpclient.NewPath("events", httpclient.PathSegment(id)).String()))
		if err != nil {
			return eventDetails{}, err
		}
		teams, err := httpclient.Send[[]team](ctx, c, httpclient.NewEndpoint[[]team](httpclient.MethodGet, "/teams"))
		if err != nil {
			return eventDetails{}, err
		}
		home, err := findTeam(teams, ev.HomeTeamID)
		if err != nil {
			return eventDetails{}, err
		}
		away, err := findTeam(teams, ev.AwayTeamID)
		if err != nil {
			return eventDetails{}, err
		}
		return eventDetails{Event: ev, Home: home, Away: away}, nil
	}
}

func findTeam(teams []team, id int) (team, error) {
	for _, t := range teams {
		if t.ID == id {
			return t, nil
		}
	}
	return team{}, &httpclient.InvalidRequestError{Reason: fmt.Sprintf("team %d not in team list", id)}
}

func TestRun_EventWithTeams(t *testing.T) {
	tests := []struct {
		name     string
		teams    []team
		wantCode int
		want     eventDetails
	}{
		{
			name:  "both teams listed",
			teams: []team{{ID: 16, Name: "Chiefs"}, {ID: 24, Name: "Eagles"}},
			want: eventDetails{
				Event: event{ID: 123, HomeTeamID: 16, AwayTeamID: 24},
				Home:  team{ID: 16, Name: "Chiefs"},
				Away:  team{ID: 24, Name: "Eagles"},
			},
		},
		{
			name:     "away team missing from list",
			teams:    []team{{ID: 16, Name: "Chiefs"}},
			wantCode: httpclient.CodeInvalidRequest,
		},
		{
			name:     "empty list",
			teams:    []team{},
			wantCode: httpclient.CodeInvalidRequest,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			stubs := testutil.NewStubTransport()
			stubs.RegisterJSON(t, baseURL+"/events/123", http.StatusOK, event{ID: 123, HomeTeamID: 16, AwayTeamID: 24})
			stubs.RegisterJSON(t, baseURL+"/teams", http.StatusOK, tt.teams)
			c := newClient(t, stubs, httpclient.Config{})

			got, err := httpclient.Run[eventDetails](context.Background(), c, eventWithTeams(123))
			if n := len(stubs.Calls()); n != 2 {
				t.Errorf("expected 2 calls, got %d", n)
			}
			if tt.wantCode != 0 {
				if httpclient.Code(err) != tt.wantCode {
					t.Errorf("Run() error = %v, want code %d", err, tt.wantCode)
				}
				return
			}
			if err != nil {
				t.Fatalf("Run() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Run() = %+v, want %+v", got, tt.want)
			}
		})
	}
}

func TestRun_StepFailureIsReturnedUnchanged(t *testing.T) {
	stubs := testutil.NewStubTransport()
	stubs.RegisterJSON(t, baseURL+"/events/123", http.StatusOK, event{ID: 123, HomeTeamID: 16, AwayTeamID: 24})
	stubs.Register(baseURL+"/teams", testutil.Stub{StatusCode: http.StatusNotFound})
	c := newClient(t, stubs, httpclient.Config{})

	_, err := httpclient.Run[eventDetails](context.Background(), c, eventWithTeams(123))
	var rf *httpclient.RequestFailedError
	if !errors.As(err, &rf) || rf.StatusCode != http.StatusNotFound {
		t.Errorf("expected the 404 of the failing step, got %v", err)
	}
}

func TestRun_WrapsForeignErrors(t *testing.T) {
	c := newClient(t, testutil.NewStubTransport(), httpclient.Config{})
	boom := errors.New("boom")

	_, err := httpclient.Run[int](context.Background(), c, httpclient.ComposedFunc[int](
		func(context.Context, *httpclient.Client) (int, error) { return 0, boom },
	))
	var ue *httpclient.UntypedError
	if !errors.As(err, &ue) || !errors.Is(err, boom) {
		t.Errorf("expected UntypedError wrapping boom, got %v", err)
	}
}
