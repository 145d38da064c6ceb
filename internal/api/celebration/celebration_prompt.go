package celebration

import (
	"fmt"
	"sort"
	"strings"

	"github.com/oiwai-app/oiwai-server/internal/types"
)

func planPrompt(text, who, when, today string) string {
	var b strings.Builder

	fmt.Fprintf(&b, `あなたはお祝い事の計画を手伝うアシスタントです。
「%s」のお祝いを「%s」のために計画します。
`, text, who)

	if when != "" {
		fmt.Fprintf(&b, "開催日は %s に確定しています。schedule は必ず空の配列で返してください。\n", when)
	} else {
		fmt.Fprintf(&b, "本日（%s）から180日以内で、開催候補日を3つ提案してください。\n", today)
	}

	b.WriteString(`
回答は次のJSON形式に厳密に従ってください:
{
  "message": "お祝い全体の概要メッセージ",
  "schedule": [
    {"date": "YYYY-MM-DD", "reason": "この日を勧める理由"}
  ],
  "ready": ["準備タスク1", "準備タスク2", "準備タスク3"],
  "items": ["必要な物1", "必要な物2", "必要な物3"],
  "events": [
    {"name": "関連イベント名", "description": "イベントの説明"}
  ],
  "error": null
}

ルール:
- ready、items、events はそれぞれ3件以上
- 日付は必ずゼロ埋めの YYYY-MM-DD 形式
- 成功時は error を null にすること
- JSONのみを返し、説明文を付けないこと`)

	return b.String()
}

func checkPrompt(text string) string {
	return fmt.Sprintf(`次のテキストがお祝い事（誕生日、結婚式、出産祝い、七五三、成人式など）を表しているか判定してください。
テキスト: 「%s」
回答は次のJSON形式のみ: {"check": true} または {"check": false}`, text)
}

func itemsDetailPrompt(item, occasion string) string {
	return fmt.Sprintf(`「%s」のお祝いで必要になる「%s」について、具体的な準備品をカテゴリ別にまとめてください。
回答は次のJSON形式に厳密に従ってください:
{
  "categories": [
    {
      "name": "カテゴリ名",
      "items": [
        {
          "name": "品名",
          "description": "説明",
          "importance": "必須/推奨/任意",
          "estimated_budget": "予算目安",
          "when_to_prepare": "準備時期",
          "notes": "注意点",
          "recommendations": "おすすめ"
        }
      ]
    }
  ],
  "total_budget_estimate": "合計予算目安"
}
カテゴリは2件以上、各カテゴリに品目を2件以上含めてください。JSONのみを返してください。`, occasion, item)
}

func eventDetailPrompt(event, occasion, today string, weekends []string, weather map[string]*types.WeatherSnapshot) string {
	var b strings.Builder

	fmt.Fprintf(&b, `「%s」のお祝いに関連するイベント「%s」について詳しく説明してください。
本日は %s です。開催候補日は本日より後の日付にしてください。
`, occasion, event, today)

	if len(weekends) > 0 {
		limit := len(weekends)
		if limit > 8 {
			limit = 8
		}
		fmt.Fprintf(&b, "直近の週末候補: %s\n", strings.Join(weekends[:limit], ", "))
	}
	// Map iteration order varies; sort so the same request always builds the
	// same prompt string.
	dates := make([]string, 0, len(weather))
	for date := range weather {
		dates = append(dates, date)
	}
	sort.Strings(dates)
	for _, date := range dates {
		if w := weather[date]; w != nil {
			fmt.Fprintf(&b, "%s の予報: %s、気温%.1f℃、降水確率%d%%\n", date, w.Description, w.TemperatureCelsius, w.PrecipitationProbability)
		}
	}

	b.WriteString(`
回答は次のJSON形式に厳密に従ってください:
{
  "description": "イベントの説明",
  "cultural_significance": "文化的な意義",
  "recommended_dates": [
    {
      "date": "YYYY-MM-DD",
      "reason": "この日を勧める理由",
      "considerations": "考慮事項",
      "is_holiday": false,
      "time_slots": [
        {"start_time": "10:00", "end_time": "12:00", "reason": "時間帯の理由"}
      ]
    }
  ]
}
recommended_dates は3件以上、各日付に time_slots を2件含めてください。JSONのみを返してください。`)

	return b.String()
}

func readyDetailPrompt(task, occasion string) string {
	return fmt.Sprintf(`「%s」のお祝いの準備タスク「%s」の進め方を詳しく説明してください。
回答は次のJSON形式に厳密に従ってください:
{
  "title": "タスク名",
  "overview": "概要",
  "timeline": "いつからいつまでに行うか",
  "steps": [
    {"step": "ステップ名", "description": "説明", "duration": "所要時間", "tips": ["コツ1", "コツ2"]}
  ],
  "required_items": ["必要な物1", "必要な物2"],
  "estimated_cost": "費用目安",
  "considerations": ["考慮事項1", "考慮事項2"]
}
steps は3件以上含めてください。JSONのみを返してください。`, occasion, task)
}
