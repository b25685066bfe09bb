package cli

import (
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"golang.org/x/term"
)

// readLine 读取一行（去掉首尾空白）
func (a *app) readLine(prompt string) (string, error) {
	fmt.Fprint(a.err, prompt)
	line, err := a.in.ReadString('\n')
	if err != nil && (err != io.EOF || line == "") {
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// readPassword 输入是终端时不回显，管道输入按行读取
func (a *app) readPassword(prompt string) (string, error) {
	if f, ok := a.rawIn.(*os.File); ok && a.in.Buffered() == 0 && term.IsTerminal(int(f.Fd())) {
		fmt.Fprint(a.err, prompt)
		b, err := term.ReadPassword(int(f.Fd()))
		fmt.Fprintln(a.err)
		if err != nil {
			return "", fmt.Errorf("read password: %w", err)
		}
		return string(b), nil
	}
	return a.readLine(prompt)
}

// confirm y/N确认，默认否，输入结束也按否处理
func (a *app) confirm(_ context.Context, prompt string) (bool, error) {
	answer, err := a.readLine(prompt + " [y/N] ")
	if errors.Is(err, io.EOF) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	}
	return false, nil
}
