// Package trigger 运营自动化：GitHub Actions 工作流触发与产出文件回传
package trigger

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"
)

const defaultAPIBase = "https://api.github.com"

// Client GitHub REST API 客户端，只覆盖用到的两个接口
type Client struct {
	apiBase string
	owner   string
	repo    string
	token   string
	http    *http.Client
}

// NewClient 创建客户端
func NewClient(owner, repo, token string) *Client {
	return &Client{
		apiBase: defaultAPIBase,
		owner:   owner,
		repo:    repo,
		token:   token,
		http:    &http.Client{Timeout: 30 * time.Second},
	}
}

// NewClientWithBase 指定 API 地址（测试用）
func NewClientWithBase(apiBase, owner, repo, token string) *Client {
	c := NewClient(owner, repo, token)
	c.apiBase = apiBase
	return c
}

// DispatchWorkflow 触发 workflow_dispatch 事件
// GitHub 成功时返回 204 且无响应体
func (c *Client) DispatchWorkflow(ctx context.Context, workflowFile, ref string, inputs map[string]string) error {
	url := fmt.Sprintf("%s/repos/%s/%s/actions/workflows/%s/dispatches",
		c.apiBase, c.owner, c.repo, workflowFile)

	payload := map[string]interface{}{"ref": ref}
	if len(inputs) > 0 {
		payload["inputs"] = inputs
	}

	status, body, err := c.do(ctx, http.MethodPost, url, payload)
	if err != nil {
		return err
	}
	if status != http.StatusNoContent && status != http.StatusOK {
		return fmt.Errorf("github returned %d: %s", status, githubErrorMessage(body))
	}
	return nil
}

// UploadFile 通过 contents API 创建或更新仓库文件
// 已存在的文件必须带上当前 SHA，先探测再提交
func (c *Client) UploadFile(ctx context.Context, path, branch, message string, content []byte) error {
	url := fmt.Sprintf("%s/repos/%s/%s/contents/%s", c.apiBase, c.owner, c.repo, path)

	payload := map[string]interface{}{
		"message": message,
		"content": base64.StdEncoding.EncodeToString(content),
		"branch":  branch,
	}
	if sha, ok := c.probeFileSHA(ctx, url, branch); ok {
		payload["sha"] = sha
	}

	status, body, err := c.do(ctx, http.MethodPut, url, payload)
	if err != nil {
		return err
	}
	if status != http.StatusOK && status != http.StatusCreated {
		return fmt.Errorf("github returned %d: %s", status, githubErrorMessage(body))
	}
	return nil
}

// probeFileSHA 查现有文件的 blob SHA，文件不存在时返回 false
func (c *Client) probeFileSHA(ctx context.Context, url, branch string) (string, bool) {
	status, body, err := c.do(ctx, http.MethodGet, url+"?ref="+branch, nil)
	if err != nil || status != http.StatusOK {
		return "", false
	}

	var resp struct {
		SHA string `json:"sha"`
	}
	if err := json.Unmarshal(body, &resp); err != nil || resp.SHA == "" {
		return "", false
	}
	return resp.SHA, true
}

func (c *Client) do(ctx context.Context, method, url string, payload interface{}) (int, []byte, error) {
	var reqBody io.Reader
	if payload != nil {
		b, err := json.Marshal(payload)
		if err != nil {
			return 0, nil, err
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, url, reqBody)
	if err != nil {
		return 0, nil, err
	}
	req.Header.Set("Accept", "application/vnd.github+json")
	req.Header.Set("Authorization", "Bearer "+c.token)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return 0, nil, err
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return resp.StatusCode, nil, err
	}
	return resp.StatusCode, body, nil
}

// githubErrorMessage 从 GitHub 错误响应里取 message 字段
func githubErrorMessage(body []byte) string {
	var resp struct {
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &resp); err == nil && resp.Message != "" {
		return resp.Message
	}
	if len(body) > 200 {
		body = body[:200]
	}
	return string(body)
}
