package tutor

// Fixed student-facing messages. Everything else the student reads is
// generated by the judge.
const (
	msgVocabAllDone = "🎉 你已經完成哂今日所有生字啦，做得好叻！輸入 'warm up' 開始今日既 Reading Warm-up Exercise 啦~"

	msgVocabReenter = "各位同學今朝俾咗大家幾個生字，唔知道大家記得幾多呢？無論你學咗幾多都唔緊要，跟住落嚟我哋一齊去背呢幾隻生字啦！\n\n你準備好嘅時候請先輸入 'vocab' 開始今日生字學習 ✍️"

	msgClosedAllDone = "🎉 今日嘅閱讀理解題目全部完成晒啦，聽日再繼續努力！"
	msgClosedReenter = "請先輸入 'reading' 開始今日閱讀任務 ✍️"
	msgRetryQuestion = "❓再試吓回答呢條問題啦："

	msgOpenAllDone  = "🎉 今日嘅 Warm-up 任務完成晒啦，輸入 'reading' 開始閱讀理解練習啦~"
	msgOpenReenter  = "請先輸入 'Warm up' 開始開放式閱讀任務 ✍️"
	msgOpenRedirect = "呢個問題好有趣，但不如我哋先集中討論文章內容 😄"

	// substituted when the judge fails while composing a reply
	msgOffTopicFallback  = "呢個問題好有趣，不過我哋而家專心學英文先啦 😊"
	msgOpenReplyFallback = "多謝你嘅分享，我哋而家一齊望一望今日嘅學習重點啦～😊"
)
