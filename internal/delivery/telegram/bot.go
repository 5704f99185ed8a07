package telegram

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"go.uber.org/zap"

	"github.com/landcover-microservice/internal/domain"
	"github.com/landcover-microservice/internal/landcover"
	"github.com/landcover-microservice/internal/usecase"
	"github.com/landcover-microservice/internal/usecase/dto"
)

const (
	maxConcurrent   = 4
	analysisTimeout = 2 * time.Minute
	maxPlaceLength  = 200
)

// Sender - часть tgbotapi.BotAPI, нужная боту
type Sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Analyzer - анализ места по названию
type Analyzer interface {
	ProcessByPlace(ctx context.Context, place string, opts usecase.AnalysisOptions) (*usecase.AnalysisResult, error)
}

// Bot отвечает на название места оверлеем и сводкой
type Bot struct {
	sender   Sender
	analyzer Analyzer
	logger   *zap.Logger
	sem      chan struct{}
	wg       sync.WaitGroup
}

func NewBot(sender Sender, analyzer Analyzer, logger *zap.Logger) *Bot {
	return &Bot{
		sender:   sender,
		analyzer: analyzer,
		logger:   logger,
		sem:      make(chan struct{}, maxConcurrent),
	}
}

// Run обрабатывает обновления до закрытия канала или отмены ctx.
// Одновременно выполняется не больше maxConcurrent анализов.
func (b *Bot) Run(ctx context.Context, updates <-chan tgbotapi.Update) {
	defer b.wg.Wait()
	for {
		select {
		case <-ctx.Done():
			return
		case upd, ok := <-updates:
			if !ok {
				return
			}
			select {
			case b.sem <- struct{}{}:
			case <-ctx.Done():
				return
			}
			b.wg.Add(1)
			go func() {
				defer b.wg.Done()
				defer func() { <-b.sem }()
				b.HandleUpdate(ctx, upd)
			}()
		}
	}
}

// HandleUpdate обрабатывает одно обновление
func (b *Bot) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	msg := upd.Message
	if msg == nil {
		return
	}
	chatID := msg.Chat.ID

	if msg.IsCommand() {
		switch msg.Command() {
		case "start", "help":
			b.send(chatID, helpText)
		case "analyze":
			b.analyze(ctx, chatID, msg.CommandArguments())
		default:
			b.send(chatID, "Неизвестная команда. /help - справка")
		}
		return
	}

	if text := strings.TrimSpace(msg.Text); text != "" {
		b.analyze(ctx, chatID, text)
	}
}

func (b *Bot) analyze(ctx context.Context, chatID int64, place string) {
	place = strings.TrimSpace(place)
	if place == "" {
		b.send(chatID, "Укажите название места, например: Lviv")
		return
	}
	if len(place) > maxPlaceLength {
		b.send(chatID, "Слишком длинное название места")
		return
	}

	logger := b.logger.With(zap.Int64("chat_id", chatID), zap.String("place", place))
	_, _ = b.sender.Send(tgbotapi.NewChatAction(chatID, tgbotapi.ChatUploadPhoto))

	ctx, cancel := context.WithTimeout(ctx, analysisTimeout)
	defer cancel()

	result, err := b.analyzer.ProcessByPlace(ctx, place, usecase.AnalysisOptions{})
	if err != nil {
		logger.Warn("Analysis failed", zap.Error(err))
		b.send(chatID, userMessage(place, err))
		return
	}

	caption := Caption(dto.NewReportSummary(result.Report))
	if len(result.Overlay) == 0 {
		b.send(chatID, caption)
		return
	}

	photo := tgbotapi.NewPhoto(chatID, tgbotapi.FileBytes{Name: "overlay.png", Bytes: result.Overlay})
	photo.Caption = caption
	if _, err := b.sender.Send(photo); err != nil {
		logger.Error("Failed to send overlay", zap.Error(err))
		b.send(chatID, caption)
		return
	}
	logger.Info("Analysis sent", zap.Bool("cached", result.Cached))
}

func (b *Bot) send(chatID int64, text string) {
	if _, err := b.sender.Send(tgbotapi.NewMessage(chatID, text)); err != nil {
		b.logger.Error("Failed to send message", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}

// Caption - подпись к оверлею
func Caption(s dto.ReportSummary) string {
	var sb strings.Builder
	if s.Region != "" {
		fmt.Fprintf(&sb, "📍 %s\n", s.Region)
	}
	fmt.Fprintf(&sb, "🌲 Лес: %.2f га\n", s.ForestHectares)
	fmt.Fprintf(&sb, "🌾 Поля: %.2f га\n", s.FieldsHectares)
	fmt.Fprintf(&sb, "Покрытие лесом: %.2f%%\n", s.ForestCoveragePercent)
	if s.CurrentAQI != nil {
		fmt.Fprintf(&sb, "AQI: %d\n", *s.CurrentAQI)
	}
	fmt.Fprintf(&sb, "Нужно посадить: %d деревьев\n", s.TreesToPlant)
	fmt.Fprintf(&sb, "Плотность посадки: %.4f дер./м²", s.PlantingDensityM2)
	return sb.String()
}

func userMessage(place string, err error) string {
	switch {
	case errors.Is(err, domain.ErrPlaceNotFound):
		return fmt.Sprintf("Место %q не найдено", place)
	case errors.Is(err, domain.ErrImageUnavailable):
		return "Не удалось получить спутниковый снимок, попробуйте позже"
	case errors.Is(err, domain.ErrCalibrationUnavailable), errors.Is(err, landcover.ErrConfiguration):
		return "Сервис не откалиброван, анализ недоступен"
	case errors.Is(err, context.DeadlineExceeded):
		return "Анализ занял слишком много времени, попробуйте позже"
	default:
		return "Не удалось выполнить анализ"
	}
}

const helpText = `Отправьте название места (например, Lviv), и я пришлю спутниковый снимок с разметкой:
красный - лес, синий - поля, жёлтый - дороги.

/analyze <место> - то же самое командой`
