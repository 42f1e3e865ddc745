package gameapi

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/quietfield/fairway/internal/util/httputil"
)

type ClientOptions struct {
	Endpoint string
	// PlayerID identifies the acting player for host-gated calls.
	PlayerID string
}

type client struct {
	o      ClientOptions
	client *http.Client
}

func NewClient(o ClientOptions, httpClient *http.Client) API {
	return &client{o: o, client: httpClient}
}

func (c *client) setUpRequest(req *http.Request) {
	req.Header.Add("Content-Type", "application/json")
	if c.o.PlayerID != "" {
		req.Header.Add(ActorHeader, c.o.PlayerID)
	}
}

func (c *client) decodeError(rsp *http.Response) error {
	if 200 <= rsp.StatusCode && rsp.StatusCode <= 299 {
		return nil
	}
	var b bytes.Buffer
	_, err := io.Copy(&b, rsp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}
	if rsp.Header.Get("Content-Type") == "application/json" {
		var apiErr *Error
		if err := json.Unmarshal(b.Bytes(), &apiErr); err != nil {
			return fmt.Errorf("unmarshal json: %w", err)
		}
		return apiErr
	}
	return httputil.MakeError(rsp.StatusCode, b.String())
}

func doClientRequest[Req any, Rsp any](ctx context.Context, c *client, method, path string, req *Req) (*Rsp, error) {
	var body io.Reader
	switch method {
	case http.MethodGet, http.MethodDelete:
	default:
		data, err := json.Marshal(req)
		if err != nil {
			return nil, fmt.Errorf("marshal json: %w", err)
		}
		body = bytes.NewBuffer(data)
	}
	hReq, err := http.NewRequestWithContext(ctx, method, c.o.Endpoint+path, body)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	c.setUpRequest(hReq)
	hRsp, err := c.client.Do(hReq)
	if err != nil {
		return nil, fmt.Errorf("send request: %w", err)
	}
	defer func() {
		_, _ = io.Copy(io.Discard, hRsp.Body)
		_ = hRsp.Body.Close()
	}()
	if err := c.decodeError(hRsp); err != nil {
		return nil, fmt.Errorf("status: %w", err)
	}
	rspBytes, err := io.ReadAll(hRsp.Body)
	if err != nil {
		return nil, fmt.Errorf("read response: %w", err)
	}
	var rsp *Rsp
	if err := json.Unmarshal(rspBytes, &rsp); err != nil {
		return nil, fmt.Errorf("unmarshal response: %w", err)
	}
	return rsp, nil
}

func (c *client) CreateGame(ctx context.Context, req *CreateGameRequest) (*CreateGameResponse, error) {
	return doClientRequest[CreateGameRequest, CreateGameResponse](ctx, c, http.MethodPost, "/games", req)
}

func (c *client) JoinGame(ctx context.Context, req *JoinGameRequest) (*JoinGameResponse, error) {
	return doClientRequest[JoinGameRequest, JoinGameResponse](ctx, c, http.MethodPost, "/games/join", req)
}

func (c *client) GameState(ctx context.Context, req *GameStateRequest) (*GameStateResponse, error) {
	return doClientRequest[GameStateRequest, GameStateResponse](
		ctx, c, http.MethodGet, "/games/"+url.PathEscape(req.GameID), req)
}

func (c *client) AddPlayer(ctx context.Context, req *AddPlayerRequest) (*AddPlayerResponse, error) {
	return doClientRequest[AddPlayerRequest, AddPlayerResponse](
		ctx, c, http.MethodPost, "/games/"+url.PathEscape(req.GameID)+"/players", req)
}

func (c *client) StartGame(ctx context.Context, req *StartGameRequest) (*StartGameResponse, error) {
	return doClientRequest[StartGameRequest, StartGameResponse](
		ctx, c, http.MethodPatch, "/games/"+url.PathEscape(req.GameID)+"/start", req)
}

func (c *client) EnterScore(ctx context.Context, req *EnterScoreRequest) (*EnterScoreResponse, error) {
	return doClientRequest[EnterScoreRequest, EnterScoreResponse](ctx, c, http.MethodPost, "/scores", req)
}

func (c *client) NextHole(ctx context.Context, req *NextHoleRequest) (*NextHoleResponse, error) {
	return doClientRequest[NextHoleRequest, NextHoleResponse](
		ctx, c, http.MethodPost, "/games/"+url.PathEscape(req.GameID)+"/next-hole", req)
}

func (c *client) CancelGame(ctx context.Context, req *CancelGameRequest) (*CancelGameResponse, error) {
	return doClientRequest[CancelGameRequest, CancelGameResponse](
		ctx, c, http.MethodDelete, "/games/"+url.PathEscape(req.GameID)+"/cancel", req)
}

func (c *client) Cleanup(ctx context.Context, req *CleanupRequest) (*CleanupResponse, error) {
	return doClientRequest[CleanupRequest, CleanupResponse](ctx, c, http.MethodPost, "/games/cleanup", req)
}

func (c *client) Course(ctx context.Context, req *CourseRequest) (*CourseResponse, error) {
	return doClientRequest[CourseRequest, CourseResponse](
		ctx, c, http.MethodGet, "/courses/"+url.PathEscape(string(req.CourseType)), req)
}

func (c *client) CourseSetting(ctx context.Context, req *CourseSettingRequest) (*CourseSettingResponse, error) {
	return doClientRequest[CourseSettingRequest, CourseSettingResponse](
		ctx, c, http.MethodGet, "/courses/"+url.PathEscape(string(req.CourseType))+"/setting", req)
}

func (c *client) PutCourseSetting(ctx context.Context, req *PutCourseSettingRequest) (*CourseSettingResponse, error) {
	return doClientRequest[PutCourseSettingRequest, CourseSettingResponse](
		ctx, c, http.MethodPut, "/courses/"+url.PathEscape(string(req.CourseType))+"/setting", req)
}

func (c *client) AddPhoto(ctx context.Context, req *AddPhotoRequest) (*AddPhotoResponse, error) {
	return doClientRequest[AddPhotoRequest, AddPhotoResponse](
		ctx, c, http.MethodPost, "/games/"+url.PathEscape(req.GameID)+"/photos", req)
}

func (c *client) ListPhotos(ctx context.Context, req *ListPhotosRequest) (*ListPhotosResponse, error) {
	return doClientRequest[ListPhotosRequest, ListPhotosResponse](
		ctx, c, http.MethodGet, "/games/"+url.PathEscape(req.GameID)+"/photos", req)
}
