package browser

// hookScript runs in every document before any page script. It captures
// link activations in the capture phase, suppresses their default
// navigation, and reports them through the CDP binding. It also defines
// the banner surface the notifier drives.
//
// The scheme and anchor checks here must stay in lockstep with
// internal/interceptor: suppression has to happen synchronously inside
// the browser, so the script pre-filters with the same rules the Go
// side applies authoritatively.
const hookScript = `(function () {
  if (window.__lgHooked) return;
  window.__lgHooked = true;

  function send(msg) {
    try { window.__linkguard(JSON.stringify(msg)); } catch (_) {}
  }

  function chain(el) {
    var path = [];
    while (el && el !== document && path.length < 64) {
      path.push({
        tag: el.tagName || '',
        href: el.href || '',
        target: (el.getAttribute && el.getAttribute('target')) || ''
      });
      el = el.parentElement;
    }
    return path;
  }

  addEventListener('click', function (e) {
    var a = e.target && e.target.closest ? e.target.closest('a[href]') : null;
    if (!a) return;
    var href = a.href || '';
    if (!href || href.indexOf('javascript:') === 0 || href.indexOf('#') === 0) return;

    e.preventDefault();
    e.stopPropagation();

    send({
      type: 'activation',
      event: {
        path: chain(e.target),
        button: e.button,
        altKey: e.altKey,
        ctrlKey: e.ctrlKey,
        metaKey: e.metaKey,
        shiftKey: e.shiftKey
      }
    });
  }, true);

  // Banner surface. One instance, reused across activations.
  var banner = null;

  function ensureBanner() {
    if (banner) return banner;
    banner = document.createElement('div');
    banner.id = 'lg-banner';
    banner.innerHTML =
      '<div class="lg-wrap">' +
      '<div class="lg-text"><strong>LinkGuard</strong> <span class="lg-url"></span> <span class="lg-msg"></span></div>' +
      '<div class="lg-actions">' +
      '<button class="lg-verify">Verify</button>' +
      '<button class="lg-ignore">Ignore</button>' +
      '</div></div>';
    document.documentElement.appendChild(banner);

    var style = document.createElement('style');
    style.textContent =
      '#lg-banner { position: fixed; top: 0; left: 0; right: 0; z-index: 999999;' +
      ' font-family: system-ui, sans-serif; }' +
      '#lg-banner .lg-wrap { display: flex; align-items: center; justify-content: space-between;' +
      ' padding: 10px 14px; color: #fff; }' +
      '#lg-banner.lg-unknown .lg-wrap { background: #2563eb; }' +
      '#lg-banner.lg-safe .lg-wrap { background: #059669; }' +
      '#lg-banner.lg-suspicious .lg-wrap { background: #ca8a04; }' +
      '#lg-banner.lg-phishing .lg-wrap { background: #dc2626; }' +
      '#lg-banner .lg-url { font-weight: 600; }' +
      '#lg-banner button { padding: 8px 12px; border: none; border-radius: 8px; cursor: pointer;' +
      ' background: #111827; color: #fff; }' +
      '#lg-banner button.lg-ignore { background: rgba(0,0,0,0.35); }';
    document.documentElement.appendChild(style);

    banner.querySelector('.lg-verify').addEventListener('click', function () {
      send({ type: 'confirm' });
    });
    banner.querySelector('.lg-ignore').addEventListener('click', function () {
      send({ type: 'dismiss' });
    });
    return banner;
  }

  function paint(cls) {
    banner.className = 'lg-' + cls;
    banner.style.display = 'block';
  }

  window.__lgShowVerifying = function (url) {
    ensureBanner();
    banner.querySelector('.lg-url').textContent = url;
    banner.querySelector('.lg-msg').textContent = 'Verifying. Continue?';
    paint('unknown');
  };

  window.__lgShowResult = function (url, cls, status, conf, reason) {
    ensureBanner();
    banner.querySelector('.lg-url').textContent = url;
    var msg = 'Status: ' + status;
    if (typeof conf === 'number') msg += ' (confidence ' + conf.toFixed(2) + ')';
    if (reason) msg += '. Reason: ' + reason;
    banner.querySelector('.lg-msg').textContent = msg;
    paint(cls);
  };

  window.__lgHide = function () {
    if (banner) banner.style.display = 'none';
  };
})();`
