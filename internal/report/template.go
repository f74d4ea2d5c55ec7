// Synapse Wrapped - Annual Activity Reports for Synapse Users
// Copyright 2026 Sage Bionetworks
// SPDX-License-Identifier: Apache-2.0

package report

// pageTemplate is the self-contained HTML artifact shell. Styling, slide
// navigation, and chart scripts are inline; the only network fetches are
// the D3 libraries for the word cloud and collaboration graph.
const pageTemplate = `<!DOCTYPE html>
<html lang="en">
<head>
<meta charset="UTF-8">
<meta name="viewport" content="width=device-width, initial-scale=1.0">
<title>Synapse Wrapped {{.Year}} - {{.Username}}</title>
<script src="https://d3js.org/d3.v7.min.js"></script>
<script src="https://cdn.jsdelivr.net/gh/jasondavies/d3-cloud@master/build/d3.layout.cloud.js"></script>
<style>
:root {
	--neon-cyan: #00ffff;
	--neon-magenta: #ff00ff;
	--neon-green: #00ff88;
	--dark-bg: #0a0a1a;
	--dark-card: #16162a;
	--text-primary: #f0f0ff;
	--text-secondary: #9090b0;
}
* { margin: 0; padding: 0; box-sizing: border-box; }
body {
	background: var(--dark-bg);
	color: var(--text-primary);
	font-family: 'Segoe UI', system-ui, sans-serif;
	overflow: hidden;
}
.slide {
	display: none;
	position: absolute;
	inset: 0;
	padding: 48px 24px;
	overflow-y: auto;
	text-align: center;
}
.slide.active { display: flex; flex-direction: column; align-items: center; justify-content: center; }
.slide h1 { font-size: 3rem; margin-bottom: 16px; color: var(--neon-cyan); text-shadow: 0 0 20px var(--neon-cyan); }
.slide h2 { font-size: 2rem; margin-bottom: 24px; color: var(--neon-magenta); }
.metric-value { font-size: 4.5rem; font-weight: 800; color: var(--neon-green); margin: 12px 0; }
.metric-label { font-size: 1.2rem; color: var(--text-secondary); }
.metric-context { margin-top: 16px; color: var(--text-secondary); }
.stat-grid { display: flex; gap: 32px; justify-content: center; flex-wrap: wrap; margin-top: 24px; }
.stat-cell { background: var(--dark-card); border-radius: 12px; padding: 20px 28px; min-width: 130px; }
.stat-cell .value { font-size: 2rem; font-weight: 700; color: var(--neon-cyan); }
.stat-cell .label { font-size: 0.85rem; color: var(--text-secondary); margin-top: 4px; }
.project-list, .collaborator-list { width: min(640px, 90vw); margin: 0 auto; text-align: left; }
.project-item, .collaborator-item {
	display: flex; align-items: center; gap: 16px;
	background: var(--dark-card); border-radius: 10px;
	padding: 14px 18px; margin-bottom: 10px; color: inherit;
	cursor: pointer; text-decoration: none;
}
.collaborator-item.no-link { cursor: default; }
.project-rank, .collaborator-rank {
	font-size: 1.4rem; font-weight: 800; color: var(--neon-magenta); width: 2ch;
}
.project-name, .collaborator-name { font-weight: 600; }
.project-metric, .collaborator-metric { font-size: 0.85rem; color: var(--text-secondary); }
.empty-note { color: var(--text-secondary); }
.badge-grid { display: flex; flex-wrap: wrap; gap: 16px; justify-content: center; max-width: 900px; }
.badge {
	background: var(--dark-card); border-radius: 12px; padding: 18px;
	width: 180px; border: 1px solid transparent;
}
.badge.special { border-color: var(--neon-magenta); box-shadow: 0 0 12px rgba(255, 0, 255, 0.4); }
.badge-icon { font-size: 2rem; }
.badge-title { font-weight: 700; margin: 8px 0 4px; }
.badge-description { font-size: 0.8rem; color: var(--text-secondary); }
.heatmap-grid { display: flex; gap: 10px; justify-content: center; flex-wrap: wrap; }
.heatmap-month-label { font-size: 0.75rem; color: var(--text-secondary); margin-bottom: 4px; }
.heatmap-weeks { display: flex; gap: 3px; }
.heatmap-week { display: flex; flex-direction: column; gap: 3px; }
.heatmap-cell { width: 10px; height: 10px; border-radius: 2px; background: var(--dark-card); }
.heatmap-cell.hidden { opacity: 0; }
.heatmap-cell.level-1, .heatmap-legend-cell.lvl-1 { background: rgba(0, 255, 247, 0.2); }
.heatmap-cell.level-2, .heatmap-legend-cell.lvl-2 { background: rgba(0, 255, 247, 0.4); }
.heatmap-cell.level-3, .heatmap-legend-cell.lvl-3 { background: rgba(0, 255, 247, 0.6); }
.heatmap-cell.level-4, .heatmap-legend-cell.lvl-4 { background: var(--neon-cyan); }
.heatmap-legend { display: flex; gap: 5px; align-items: center; justify-content: center; margin-top: 14px; color: var(--text-secondary); font-size: 0.8rem; }
.heatmap-legend-cell { width: 10px; height: 10px; border-radius: 2px; background: var(--dark-card); }
.month-badge { display: inline-block; background: var(--dark-card); border-radius: 10px; padding: 14px 22px; margin: 8px; }
.month-badge.top { border: 1px solid var(--neon-green); }
.month-name { font-size: 1.4rem; font-weight: 700; color: var(--neon-green); }
.month-stat { font-size: 0.85rem; color: var(--text-secondary); }
.time-scores { display: flex; gap: 24px; justify-content: center; flex-wrap: wrap; }
.time-score { background: var(--dark-card); border-radius: 12px; padding: 20px 26px; }
.time-score.highlight { border: 1px solid var(--neon-cyan); }
.comparison-track { width: min(480px, 80vw); height: 10px; background: var(--dark-card); border-radius: 5px; margin: 18px auto; position: relative; }
.comparison-fill { height: 100%; border-radius: 5px; background: linear-gradient(90deg, var(--neon-cyan), var(--neon-magenta)); }
.pageview-table { margin: 20px auto; border-collapse: collapse; }
.pageview-table td { padding: 8px 18px; border-bottom: 1px solid var(--dark-card); }
#network-container svg, #wordcloud-container svg { max-width: 100%; }
.nav-dots { position: fixed; bottom: 18px; left: 0; right: 0; display: flex; gap: 8px; justify-content: center; z-index: 10; }
.nav-dot { width: 10px; height: 10px; border-radius: 50%; background: var(--dark-card); cursor: pointer; }
.nav-dot.active { background: var(--neon-cyan); }
.nav-hint { position: fixed; bottom: 40px; right: 24px; color: var(--text-secondary); font-size: 0.75rem; }
#audio-toggle { position: fixed; top: 18px; right: 18px; background: var(--dark-card); color: var(--text-primary); border: none; border-radius: 20px; padding: 8px 16px; cursor: pointer; z-index: 10; }
</style>
</head>
<body>

<section class="slide active">
	<h1>Synapse Wrapped</h1>
	<div class="metric-value">{{.Year}}</div>
	<div class="metric-label">Your year in open science, {{.Username}}</div>
	<div class="metric-context">Generated {{.GenerationDate}} · times shown in {{.TimezoneDisplay}}</div>
</section>

<section class="slide">
	<h2>You downloaded</h2>
	<div class="metric-value">{{formatNumber .FileCount}}</div>
	<div class="metric-label">files · {{formatBytes .TotalSize}} across {{formatNumber .ProjectCount}} projects</div>
	<div class="stat-grid">
		<div class="stat-cell"><div class="value">{{.ActiveDays}}</div><div class="label">active days</div></div>
		<div class="stat-cell"><div class="value">{{.ActivePercentage}}%</div><div class="label">of {{.Year}}</div></div>
	</div>
	<div class="metric-context">That's {{.ActivePercentage}}% of {{.Year}}. Your dedication to science is inspiring.</div>
</section>

<section class="slide">
	<h2>Your activity calendar</h2>
	{{.HeatmapHTML}}
	<div class="metric-context">Most active months</div>
	<div>{{.ActiveMonthsHTML}}</div>
</section>

<section class="slide">
	<h2>When you work</h2>
	<div class="time-scores">
		<div class="time-score {{.NightClass}}"><div class="value">{{.NightScore}}%</div><div class="metric-label">after hours</div></div>
		<div class="time-score {{.EarlyClass}}"><div class="value">{{.EarlyScore}}%</div><div class="metric-label">before 9am</div></div>
		<div class="time-score {{.WeekendClass}}"><div class="value">{{.WeekendScore}}%</div><div class="metric-label">on weekends</div></div>
	</div>
	<div id="hourly-container"></div>
</section>

<section class="slide">
	<h2>Moments of the year</h2>
	<div class="stat-grid">
		<div class="stat-cell">
			<div class="label">First download</div>
			<div class="value" style="font-size:1.1rem">{{.FirstDownloadDate}}</div>
			<div class="label">{{.FirstDownloadFile}} · {{.FirstDownloadProject}}</div>
		</div>
		<div class="stat-cell">
			<div class="label">Busiest day</div>
			<div class="value" style="font-size:1.1rem">{{.BusiestDayDate}}</div>
			<div class="label">{{formatNumber .BusiestDayDownloads}} downloads · {{.BusiestDaySize}}</div>
		</div>
		<div class="stat-cell">
			<div class="label">Largest file</div>
			<div class="value" style="font-size:1.1rem">{{.LargestFileSize}}</div>
			<div class="label">{{.LargestFileName}}{{if .LargestFileProject}} · {{.LargestFileProject}}{{end}}</div>
		</div>
	</div>
	<div id="growth-container"></div>
</section>

<section class="slide">
	<h2>Your taste in files</h2>
	<div class="stat-grid">
		<div class="stat-cell"><div class="value">{{.UserAvgSize}}</div><div class="label">your average file</div></div>
		<div class="stat-cell"><div class="value">{{.PlatformAvgSize}}</div><div class="label">platform average</div></div>
	</div>
	<div class="comparison-track"><div class="comparison-fill" style="width: {{.ComparisonPercent}}%;"></div></div>
	<div class="metric-context">{{.SizeComparisonText}}</div>
</section>

<section class="slide">
	<h2>Your top projects</h2>
	{{.TopProjectsHTML}}
</section>

<section class="slide">
	<h2>Your project universe</h2>
	<div id="wordcloud-container"></div>
</section>

<section class="slide">
	<h2>You created</h2>
	<div class="metric-value">{{formatNumber .TotalCreations}}</div>
	<div class="metric-label">new items on Synapse</div>
	<div class="stat-grid">
		<div class="stat-cell"><div class="value">{{formatNumber .FilesCreated}}</div><div class="label">files</div></div>
		<div class="stat-cell"><div class="value">{{.FoldersCreated}}</div><div class="label">folders</div></div>
		<div class="stat-cell"><div class="value">{{.TablesCreated}}</div><div class="label">tables</div></div>
		<div class="stat-cell"><div class="value">{{.ProjectsCreated}}</div><div class="label">projects</div></div>
	</div>
</section>

<section class="slide">
	<h2>Users like you</h2>
	{{.TopCollaboratorsHTML}}
</section>

<section class="slide">
	<h2>Your research network</h2>
	<div id="network-container"></div>
	<div class="metric-context">Researchers who downloaded the same files as you</div>
</section>

<section class="slide">
	<h2>Where you stand</h2>
	<div class="metric-value">Top {{printf "%.0f" .TopPercent}}%</div>
	<div class="metric-label">of {{formatNumber .TotalUsers}} Synapse downloaders</div>
	<div class="stat-grid">
		<div class="stat-cell"><div class="value">{{.ControlledProjects}}</div><div class="label">controlled-access projects</div></div>
		<div class="stat-cell"><div class="value">{{.OpenProjects}}</div><div class="label">open projects</div></div>
	</div>
</section>

{{if .Pageviews}}
<section class="slide">
	<h2>Your projects in the spotlight</h2>
	<table class="pageview-table">
	{{range .Pageviews}}<tr><td>{{.Name}}</td><td>{{formatNumber .Pageviews}} pageviews</td></tr>
	{{end}}</table>
</section>
{{end}}

<section class="slide">
	<h2>Your {{.Year}} badges</h2>
	<div class="badge-grid">
	{{.BadgesHTML}}
	</div>
	<div class="metric-context">See you next year, {{.Username}}.</div>
</section>

{{if .Audio}}
<audio id="bg-audio" loop>
	<source src="data:audio/mpeg;base64," type="audio/mpeg">
</audio>
<button id="audio-toggle">♪ music</button>
{{end}}

<div class="nav-dots" id="nav-dots"></div>
<div class="nav-hint">← → or click to navigate</div>

<script>
(function() {
	const slides = Array.from(document.querySelectorAll('.slide'));
	const dots = document.getElementById('nav-dots');
	let current = 0;

	slides.forEach((_, i) => {
		const dot = document.createElement('div');
		dot.className = 'nav-dot' + (i === 0 ? ' active' : '');
		dot.addEventListener('click', e => { e.stopPropagation(); show(i); });
		dots.appendChild(dot);
	});

	function show(i) {
		if (i < 0 || i >= slides.length) return;
		slides[current].classList.remove('active');
		dots.children[current].classList.remove('active');
		current = i;
		slides[current].classList.add('active');
		dots.children[current].classList.add('active');
	}

	document.addEventListener('keydown', e => {
		if (e.key === 'ArrowRight' || e.key === ' ') show(current + 1);
		if (e.key === 'ArrowLeft') show(current - 1);
	});
	document.body.addEventListener('click', e => {
		if (e.target.closest('a, button, .project-item, .nav-dot')) return;
		show(current + 1);
	});

	document.querySelectorAll('.project-item[data-href]').forEach(el => {
		el.addEventListener('click', e => {
			e.stopPropagation();
			const href = el.getAttribute('data-href');
			if (href && href !== '#') window.open(href, '_blank');
		});
	});

	const toggle = document.getElementById('audio-toggle');
	if (toggle) {
		const audio = document.getElementById('bg-audio');
		toggle.addEventListener('click', e => {
			e.stopPropagation();
			if (audio.paused) { audio.play(); toggle.textContent = '♪ pause'; }
			else { audio.pause(); toggle.textContent = '♪ music'; }
		});
	}
})();
</script>

<script>
(function() {
	const network = {{.NetworkJSON}};
	if (!network.nodes || network.nodes.length === 0) return;

	const width = 760, height = 480;
	const svg = d3.select('#network-container').append('svg')
		.attr('width', width).attr('height', height);

	const sim = d3.forceSimulation(network.nodes)
		.force('link', d3.forceLink(network.links).id(d => d.id).distance(120))
		.force('charge', d3.forceManyBody().strength(-220))
		.force('center', d3.forceCenter(width / 2, height / 2));

	const link = svg.append('g').selectAll('line')
		.data(network.links).enter().append('line')
		.attr('stroke', '#3a3a5a')
		.attr('stroke-width', d => Math.max(1, Math.sqrt(d.value)));

	const node = svg.append('g').selectAll('circle')
		.data(network.nodes).enter().append('circle')
		.attr('r', d => d.group === 0 ? 14 : 7)
		.attr('fill', d => d.group === 0 ? '#ff00ff' : '#00ffff')
		.style('cursor', d => d.profileUrl ? 'pointer' : 'default')
		.on('click', (event, d) => {
			event.stopPropagation();
			if (d.profileUrl) window.open(d.profileUrl, '_blank');
		});

	node.append('title').text(d => d.name);

	const label = svg.append('g').selectAll('text')
		.data(network.nodes.slice(0, 6)).enter().append('text')
		.text(d => d.name)
		.attr('fill', '#9090b0').attr('font-size', 11).attr('dy', -14)
		.attr('text-anchor', 'middle');

	sim.on('tick', () => {
		link.attr('x1', d => d.source.x).attr('y1', d => d.source.y)
			.attr('x2', d => d.target.x).attr('y2', d => d.target.y);
		node.attr('cx', d => d.x).attr('cy', d => d.y);
		label.attr('x', d => d.x).attr('y', d => d.y);
	});
})();
</script>

<script>
(function() {
	const words = {{.WordCloudJSON}};
	if (!words || words.length === 0) return;

	const width = 900, height = 420;
	const maxSize = words[0].size, minSize = words[words.length - 1].size;
	const scale = d3.scaleLinear().domain([minSize, maxSize]).range([18, 72]);

	d3.layout.cloud()
		.size([width, height])
		.words(words.map(d => ({ text: d.text, size: scale(d.size), color: d.color })))
		.padding(5)
		.rotate(() => 0)
		.fontSize(d => d.size)
		.on('end', draw)
		.start();

	function draw(ws) {
		d3.select('#wordcloud-container').append('svg')
			.attr('width', width).attr('height', height)
			.append('g')
			.attr('transform', 'translate(' + width / 2 + ',' + height / 2 + ')')
			.selectAll('text').data(ws).enter().append('text')
			.style('font-size', d => d.size + 'px')
			.style('font-weight', '600')
			.style('fill', d => d.color)
			.attr('text-anchor', 'middle')
			.attr('transform', d => 'translate(' + [d.x, d.y] + ')')
			.text(d => d.text);
	}
})();
</script>

<script>
(function() {
	const hourly = {{.HourlyJSON}};
	if (!hourly || hourly.length === 0) return;

	const width = 420, height = 220, pad = 24;
	const svg = d3.select('#hourly-container').append('svg')
		.attr('width', width).attr('height', height);
	const max = d3.max(hourly, d => d.count) || 1;
	const x = d3.scaleBand().domain(d3.range(24)).range([pad, width - pad]).padding(0.2);
	const y = d3.scaleLinear().domain([0, max]).range([height - pad, pad]);

	svg.selectAll('rect').data(hourly).enter().append('rect')
		.attr('x', d => x(d.hour)).attr('y', d => y(d.count))
		.attr('width', x.bandwidth())
		.attr('height', d => (height - pad) - y(d.count))
		.attr('fill', d => (d.hour >= 18 || d.hour < 6) ? '#ff00ff' : '#00ffff');
})();
</script>

<script>
(function() {
	const growth = {{.MonthlyGrowthJSON}};
	if (!growth || growth.length === 0) return;

	let total = 0;
	const points = growth.map(d => ({ month: d.month, total: (total += d.size) }));

	const width = 460, height = 200, pad = 28;
	const svg = d3.select('#growth-container').append('svg')
		.attr('width', width).attr('height', height);
	const x = d3.scalePoint().domain(points.map(d => d.month)).range([pad, width - pad]);
	const y = d3.scaleLinear().domain([0, points[points.length - 1].total || 1]).range([height - pad, pad]);

	svg.append('path').datum(points)
		.attr('fill', 'none').attr('stroke', '#00ff88').attr('stroke-width', 2)
		.attr('d', d3.line().x(d => x(d.month)).y(d => y(d.total)));
})();
</script>

</body>
</html>
`
