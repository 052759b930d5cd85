package opentdb

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"net/url"
	"testing"
)

type roundTripperFunc func(*http.Request) (*http.Response, error)

func (f roundTripperFunc) RoundTrip(r *http.Request) (*http.Response, error) {
	return f(r)
}

func newTestClient(rt http.RoundTripper) *Client {
	return NewClient(&http.Client{Transport: rt})
}

func jsonResponse(status int, body []byte) *http.Response {
	return &http.Response{
		StatusCode: status,
		Body:       io.NopCloser(bytes.NewReader(body)),
		Header:     make(http.Header),
	}
}

func TestFetchQuestionsBuildsQuery(t *testing.T) {
	var seen url.Values

	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		seen = r.URL.Query()
		return jsonResponse(http.StatusOK, []byte(`{"response_code":0,"results":[]}`)), nil
	}))

	if _, err := client.FetchQuestions(context.Background(), Query{Amount: 5, Category: 18, Difficulty: "hard"}); err != nil {
		t.Fatalf("FetchQuestions returned error: %v", err)
	}
	if seen.Get("amount") != "5" || seen.Get("category") != "18" || seen.Get("difficulty") != "hard" || seen.Get("type") != "multiple" {
		t.Fatalf("unexpected query: %v", seen)
	}
}

func TestFetchQuestionsClampsAmount(t *testing.T) {
	var amounts []string

	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		amounts = append(amounts, r.URL.Query().Get("amount"))
		return jsonResponse(http.StatusOK, []byte(`{"response_code":0,"results":[]}`)), nil
	}))

	questions, err := client.FetchQuestions(context.Background(), Query{})
	if err != nil {
		t.Fatalf("FetchQuestions returned error: %v", err)
	}
	if len(questions) != 0 {
		t.Fatalf("expected no questions, got %d", len(questions))
	}
	if _, err := client.FetchQuestions(context.Background(), Query{Amount: 500}); err != nil {
		t.Fatalf("FetchQuestions returned error: %v", err)
	}

	if len(amounts) != 2 || amounts[0] != "10" || amounts[1] != "50" {
		t.Fatalf("expected amounts [10 50], got %v", amounts)
	}
}

func TestFetchQuestionsDecodesResults(t *testing.T) {
	payload := apiResponse{
		Results: []RawQuestion{
			{
				Type:             "multiple",
				Difficulty:       "easy",
				Category:         "Science: Computers",
				Question:         "What does CPU stand for?",
				CorrectAnswer:    "Central Processing Unit",
				IncorrectAnswers: []string{"Computer Personal Unit", "Central Process Unit", "Central Processor Unit"},
			},
		},
	}
	encoded, err := json.Marshal(payload)
	if err != nil {
		t.Fatalf("marshal payload: %v", err)
	}

	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, encoded), nil
	}))

	questions, err := client.FetchQuestions(context.Background(), Query{Amount: 1})
	if err != nil {
		t.Fatalf("FetchQuestions returned error: %v", err)
	}
	if len(questions) != 1 || questions[0].CorrectAnswer != "Central Processing Unit" || len(questions[0].IncorrectAnswers) != 3 {
		t.Fatalf("unexpected questions: %+v", questions)
	}
}

func TestFetchQuestionsPropagatesNonOKStatus(t *testing.T) {
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusBadGateway, nil), nil
	}))

	if _, err := client.FetchQuestions(context.Background(), Query{Amount: 5}); err == nil {
		t.Fatalf("expected error for non-200 status")
	}
}

func TestFetchQuestionsJSONDecodeError(t *testing.T) {
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		return jsonResponse(http.StatusOK, []byte("not-json")), nil
	}))

	if _, err := client.FetchQuestions(context.Background(), Query{Amount: 3}); err == nil {
		t.Fatalf("expected JSON decode error")
	}
}

func TestFetchQuestionsNonZeroResponseCode(t *testing.T) {
	client := newTestClient(roundTripperFunc(func(r *http.Request) (*http.Response, error) {
		payload := apiResponse{
			ResponseCode: 1,
			Results: []RawQuestion{
				{Question: "ignored"},
			},
		}
		encoded, err := json.Marshal(payload)
		if err != nil {
			t.Fatalf("marshal payload: %v", err)
		}
		return jsonResponse(http.StatusOK, encoded), nil
	}))

	if _, err := client.FetchQuestions(context.Background(), Query{Amount: 3}); err == nil {
		t.Fatalf("expected error for non-zero response_code")
	}
}
