package quiz

// MovieQuiz is the five-question movie taste quiz.
var MovieQuiz = Quiz{
	Questions: []Question{
		{
			Prompt: "주말 저녁, 영화를 고른다면 어떤 분위기가 끌리나요?",
			Options: []Option{
				{Text: "잔잔하고 여운이 남는 이야기", Weights: map[Category]int{Drama: 3}},
				{Text: "설레는 사랑 이야기", Weights: map[Category]int{Romance: 3}},
				{Text: "아무 생각 없이 웃을 수 있는 영화", Weights: map[Category]int{Comedy: 3}},
				{Text: "통쾌하게 터지는 액션", Weights: map[Category]int{Action: 3}},
				{Text: "숨 막히는 긴장감", Weights: map[Category]int{Thriller: 3}},
				{Text: "상상력을 자극하는 미래 세계", Weights: map[Category]int{SF: 3}},
			},
		},
		{
			Prompt: "영화 속 주인공이 된다면?",
			Options: []Option{
				{Text: "가족을 위해 묵묵히 버티는 사람", Weights: map[Category]int{Drama: 2, Romance: 1}},
				{Text: "운명적인 만남을 기다리는 사람", Weights: map[Category]int{Romance: 2, Drama: 1}},
				{Text: "어딜 가나 사고를 치는 분위기 메이커", Weights: map[Category]int{Comedy: 2, Action: 1}},
				{Text: "악당을 쫓는 형사", Weights: map[Category]int{Action: 2, Thriller: 1}},
				{Text: "시간 여행자", Weights: map[Category]int{SF: 2, Thriller: 1}},
			},
		},
		{
			Prompt: "영화가 끝난 뒤 어떤 기분이고 싶나요?",
			Options: []Option{
				{Text: "마음이 따뜻해지고 눈물이 핑 도는 감동", Weights: map[Category]int{Drama: 2, Romance: 1}},
				{Text: "설렘이 오래 남는 기분", Weights: map[Category]int{Romance: 2}},
				{Text: "스트레스가 풀리는 유쾌함", Weights: map[Category]int{Comedy: 2}},
				{Text: "심장이 뛰는 짜릿함", Weights: map[Category]int{Action: 2, Thriller: 1}},
				{Text: "반전에 소름 돋는 충격", Weights: map[Category]int{Thriller: 2}},
				{Text: "세계관에 대해 계속 생각하게 되는 여운", Weights: map[Category]int{SF: 2, Drama: 1}},
			},
		},
		{
			Prompt: "가장 좋아하는 장면은?",
			Options: []Option{
				{Text: "인물이 오랜 갈등 끝에 화해하는 장면", Weights: map[Category]int{Drama: 2}},
				{Text: "비 오는 날의 고백", Weights: map[Category]int{Romance: 2}},
				{Text: "예상 못 한 말장난", Weights: map[Category]int{Comedy: 2}},
				{Text: "맨몸 격투 추격전", Weights: map[Category]int{Action: 2}},
				{Text: "범인의 정체가 밝혀지는 순간", Weights: map[Category]int{Thriller: 2}},
				{Text: "우주선이 워프하는 장면", Weights: map[Category]int{SF: 2}},
			},
		},
		{
			Prompt: "누구와 함께 보나요?",
			Options: []Option{
				{Text: "혼자 조용히 몰입해서", Weights: map[Category]int{Drama: 1, Thriller: 1}},
				{Text: "연인과 함께", Weights: map[Category]int{Romance: 2}},
				{Text: "친구들과 떠들썩하게", Weights: map[Category]int{Comedy: 1, Action: 1}},
				{Text: "가족과 함께 편하게", Weights: map[Category]int{Comedy: 1, Drama: 1}},
				{Text: "영화 덕후 친구와 토론하며", Weights: map[Category]int{SF: 1, Thriller: 1}},
			},
		},
	},
	TagQuestions: []int{0, 2, 4},
	TagRules: []TagRule{
		{Tag: "#여운", Keywords: []string{"여운", "잔잔"}},
		{Tag: "#감동", Keywords: []string{"감동", "따뜻", "눈물"}},
		{Tag: "#설렘", Keywords: []string{"설레", "설렘", "사랑", "연인"}},
		{Tag: "#웃음", Keywords: []string{"웃", "유쾌", "떠들썩"}},
		{Tag: "#짜릿함", Keywords: []string{"통쾌", "짜릿", "액션"}},
		{Tag: "#긴장감", Keywords: []string{"긴장", "소름", "반전"}},
		{Tag: "#상상력", Keywords: []string{"상상", "미래", "세계관"}},
		{Tag: "#몰입", Keywords: []string{"몰입", "혼자"}},
		{Tag: "#함께", Keywords: []string{"함께", "가족", "친구"}},
	},
}
