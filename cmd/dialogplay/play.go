package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/decker502/platformer/pkg/dialog"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

// tickInterval 与游戏的 60 TPS 保持一致
const tickInterval = time.Second / 60

var playCmd = &cobra.Command{
	Use:   "play <sequence-id>",
	Short: "Play a dialog sequence in the terminal",
	Long: `Plays a sequence with the same timing as the game.
Press Enter to advance (or reveal the whole line), "s" to skip, "p" to pause and "q" to quit.`,
	Args: cobra.ExactArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		proj, err := projectFromFlags(cmd)
		if err != nil {
			return err
		}
		seq, ok := proj.library.Get(args[0])
		if !ok {
			return fmt.Errorf("unknown sequence %q", args[0])
		}

		opts := playOptions{}
		opts.Speed, _ = cmd.Flags().GetFloat64("speed")
		opts.Auto, _ = cmd.Flags().GetBool("auto")
		opts.Hold, _ = cmd.Flags().GetDuration("hold")

		ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
		defer stop()

		_, err = playSequence(ctx, seq, cmd.InOrStdin(), cmd.OutOrStdout(), termenv.ColorProfile(), opts)
		return err
	},
}

func init() {
	playCmd.Flags().Float64("speed", 1, "Text speed multiplier")
	playCmd.Flags().Bool("auto", false, "Advance automatically when a line is fully shown")
	playCmd.Flags().Duration("hold", time.Second, "How long a finished line stays before --auto advances")
	rootCmd.AddCommand(playCmd)
}

// playOptions 播放选项
type playOptions struct {
	Speed float64       // 文字速度倍率，<= 0 时使用 1
	Auto  bool          // 行显示完成后自动推进
	Hold  time.Duration // 自动推进前的停留时间
}

// playCommand 玩家在终端输入的命令
type playCommand int

const (
	cmdAdvance playCommand = iota
	cmdSkip
	cmdPause
	cmdQuit
)

// parseCommand 空行推进，s/p/q 分别为跳过、暂停、退出
func parseCommand(line string) (playCommand, bool) {
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "":
		return cmdAdvance, true
	case "s", "skip":
		return cmdSkip, true
	case "p", "pause":
		return cmdPause, true
	case "q", "quit":
		return cmdQuit, true
	}
	return 0, false
}

// readCommands 在后台逐行读取输入，输入结束时关闭通道
func readCommands(ctx context.Context, r io.Reader) <-chan playCommand {
	ch := make(chan playCommand)
	go func() {
		defer close(ch)
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			c, ok := parseCommand(scanner.Text())
			if !ok {
				continue
			}
			select {
			case ch <- c:
			case <-ctx.Done():
				return
			}
		}
	}()
	return ch
}

// playSequence 播放序列直到结束，返回结束原因
//
// 对话管理器只在本 goroutine 中调用；输入由 readCommands 的 goroutine 通过通道传入。
// 非自动模式下输入结束（EOF）视为退出。
func playSequence(ctx context.Context, seq *dialog.Sequence, in io.Reader, out io.Writer, profile termenv.Profile, opts playOptions) (dialog.EndReason, error) {
	if seq.Len() == 0 {
		return 0, fmt.Errorf("sequence %q has no lines", seq.ID)
	}

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	presenter := newTerminalPresenter(out, profile)
	manager := dialog.NewManager(dialog.Options{Presenter: presenter})
	if opts.Speed > 0 {
		manager.SetTextSpeed(opts.Speed)
	}

	var (
		ended  bool
		reason dialog.EndReason
	)
	manager.Subscribe(func(e dialog.Event) {
		if e.Type == dialog.EventEnded {
			ended = true
			reason = e.Reason
		}
	})

	if !opts.Auto {
		fmt.Fprintln(out, profile.String("Enter: continue  s: skip  p: pause  q: quit").Faint())
	}

	commands := readCommands(ctx, in)
	ticker := time.NewTicker(tickInterval)
	defer ticker.Stop()

	manager.StartDialog(seq)

	var awaitingSince time.Time
	for !ended {
		select {
		case <-ctx.Done():
			manager.EndDialog()

		case c, ok := <-commands:
			if !ok {
				commands = nil
				if !opts.Auto {
					manager.EndDialog()
				}
				continue
			}
			switch c {
			case cmdAdvance:
				manager.AdvanceDialog()
			case cmdSkip:
				manager.SkipDialog()
			case cmdPause:
				manager.TogglePauseDialog()
			case cmdQuit:
				manager.EndDialog()
			}

		case now := <-ticker.C:
			manager.Update()
			if !opts.Auto || manager.IsPaused() || manager.State() != dialog.StateAwaitingAdvance {
				awaitingSince = time.Time{}
				continue
			}
			if awaitingSince.IsZero() {
				awaitingSince = now
			}
			if now.Sub(awaitingSince) >= opts.Hold {
				awaitingSince = time.Time{}
				manager.AdvanceDialog()
			}
		}
	}

	presenter.Finish()
	fmt.Fprintln(out, profile.String(fmt.Sprintf("-- %s: %s --", seq.ID, reason)).Faint())
	return reason, nil
}
